package database

import (
	"time"

	"gorm.io/gorm"
)

type Card struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	Name          string    `json:"name" gorm:"not null"`
	HP            int       `json:"hp" gorm:"not null"`
	Attack        int       `json:"attack" gorm:"not null"`
	Type          string    `json:"type" gorm:"not null"`
	PokedexNumber int       `json:"pokedexNumber" gorm:"not null"`
	ImgURL        string    `json:"imgUrl"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// ListCards returns the whole catalog in ascending pokedex order.
func ListCards(db *gorm.DB) ([]Card, error) {
	var cards []Card

	res := db.Order("pokedex_number asc").Find(&cards)
	if res.Error != nil {
		return nil, res.Error
	}

	return cards, nil
}

// FindCardsByIDs returns the catalog rows matching ids. Ids with no catalog
// row are silently omitted; callers compare against what they asked for.
func FindCardsByIDs(db *gorm.DB, ids []uint) ([]Card, error) {
	var cards []Card

	res := db.Where("id IN ?", ids).Find(&cards)
	if res.Error != nil {
		return nil, res.Error
	}

	return cards, nil
}
