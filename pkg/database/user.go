package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Username  string    `json:"username" gorm:"uniqueIndex;not null"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	Password  string    `json:"-" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	Decks []Deck `json:"-" gorm:"foreignKey:UserID"`
}

// FindUserByEmail returns (nil, nil) when no user has that email.
func FindUserByEmail(db *gorm.DB, email string) (*User, error) {
	var user User

	res := db.Where("email = ?", email).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, res.Error
	}

	return &user, nil
}

func FindUserByUsername(db *gorm.DB, username string) (*User, error) {
	var user User

	res := db.Where("username = ?", username).First(&user)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}

		return nil, res.Error
	}

	return &user, nil
}
