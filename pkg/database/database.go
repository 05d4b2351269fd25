package database

import (
	"sync"

	"gorm.io/gorm"
)

var db *gorm.DB
var initOnce sync.Once

func InitDatabase(d *gorm.DB) {
	initOnce.Do(func() {
		d.AutoMigrate(&User{}, &Card{}, &Deck{}, &DeckCard{})
		db = d
	})
}

func GetDatabase() *gorm.DB {
	return db
}

// Migrate creates the schema on an arbitrary handle. Used by tests and the
// seeder, which manage their own connections instead of the singleton.
func Migrate(d *gorm.DB) error {
	return d.AutoMigrate(&User{}, &Card{}, &Deck{}, &DeckCard{})
}
