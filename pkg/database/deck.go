package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type Deck struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Name      string    `json:"name" gorm:"not null"`
	UserID    uint      `json:"userId" gorm:"not null;index"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	DeckCards []DeckCard `json:"deckCards" gorm:"foreignKey:DeckID"`
}

// DeckCard links one deck slot to one catalog card. The same card may fill
// several slots of the same deck.
type DeckCard struct {
	ID     uint `json:"id" gorm:"primaryKey"`
	DeckID uint `json:"deckId" gorm:"not null;index"`
	CardID uint `json:"cardId" gorm:"not null"`

	Card Card `json:"card" gorm:"foreignKey:CardID"`
}

// CreateDeck persists a deck owned by userID with one DeckCard row per
// element of cardIDs, all inside a single transaction. The returned deck has
// its card list expanded.
func CreateDeck(db *gorm.DB, userID uint, name string, cardIDs []uint) (*Deck, error) {
	deck := Deck{
		Name:   name,
		UserID: userID,
	}

	for _, cardID := range cardIDs {
		deck.DeckCards = append(deck.DeckCards, DeckCard{CardID: cardID})
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		return tx.Create(&deck).Error
	})
	if err != nil {
		return nil, err
	}

	return FindDeckByID(db, deck.ID)
}

// FindDeckByID returns (nil, nil) when the deck does not exist.
func FindDeckByID(db *gorm.DB, id uint) (*Deck, error) {
	var deck Deck

	res := db.Preload("DeckCards.Card").First(&deck, id)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, res.Error
	}

	return &deck, nil
}

func FindDecksByUser(db *gorm.DB, userID uint) ([]Deck, error) {
	var decks []Deck

	res := db.Preload("DeckCards.Card").Where("user_id = ?", userID).Find(&decks)
	if res.Error != nil {
		return nil, res.Error
	}

	return decks, nil
}

// UpdateDeck applies a partial update in one transaction. A nil name leaves
// the name alone; a non-nil cardIDs replaces the whole association set, old
// rows deleted first.
func UpdateDeck(db *gorm.DB, deckID uint, name *string, cardIDs []uint) (*Deck, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		if name != nil {
			res := tx.Model(&Deck{}).Where("id = ?", deckID).Update("name", *name)
			if res.Error != nil {
				return res.Error
			}
		}

		if cardIDs != nil {
			res := tx.Where("deck_id = ?", deckID).Delete(&DeckCard{})
			if res.Error != nil {
				return res.Error
			}

			var rows []DeckCard
			for _, cardID := range cardIDs {
				rows = append(rows, DeckCard{DeckID: deckID, CardID: cardID})
			}

			if res := tx.Create(&rows); res.Error != nil {
				return res.Error
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return FindDeckByID(db, deckID)
}

// DeleteDeck removes the deck and every one of its DeckCard rows. The join
// rows are deleted explicitly so no driver is trusted to cascade.
func DeleteDeck(db *gorm.DB, deckID uint) error {
	return db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("deck_id = ?", deckID).Delete(&DeckCard{})
		if res.Error != nil {
			return res.Error
		}

		return tx.Delete(&Deck{}, deckID).Error
	})
}
