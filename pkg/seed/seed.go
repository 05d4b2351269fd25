package seed

import (
	"encoding/json"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/tcgdecks/api/pkg/database"
)

const artworkURL = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon/other/official-artwork/%d.png"

type CardEntry struct {
	Name          string `json:"name"`
	HP            int    `json:"hp"`
	Attack        int    `json:"attack"`
	Type          string `json:"type"`
	PokedexNumber int    `json:"pokedexNumber"`
}

// LoadCardEntries reads a catalog description from a JSON file.
func LoadCardEntries(path string) ([]CardEntry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var entries []CardEntry
	if err := json.NewDecoder(f).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	return entries, nil
}

// SeedCards inserts every entry whose pokedex number is not already in the
// catalog, so reseeding is safe.
func SeedCards(db *gorm.DB, entries []CardEntry) error {
	for _, entry := range entries {
		var count int64
		res := db.Model(&database.Card{}).
			Where("pokedex_number = ?", entry.PokedexNumber).
			Count(&count)
		if res.Error != nil {
			return res.Error
		}

		if count > 0 {
			continue
		}

		card := database.Card{
			Name:          entry.Name,
			HP:            entry.HP,
			Attack:        entry.Attack,
			Type:          entry.Type,
			PokedexNumber: entry.PokedexNumber,
			ImgURL:        fmt.Sprintf(artworkURL, entry.PokedexNumber),
		}

		if res := db.Create(&card); res.Error != nil {
			return res.Error
		}
	}

	return nil
}

// SeedUsers creates the two demo trainers. Existing users are left alone.
func SeedUsers(db *gorm.DB, password string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	demo := []database.User{
		{Username: "red", Email: "red@example.com", Password: string(hash)},
		{Username: "blue", Email: "blue@example.com", Password: string(hash)},
	}

	for _, user := range demo {
		existing, err := database.FindUserByEmail(db, user.Email)
		if err != nil {
			return err
		}

		if existing != nil {
			log.Printf("user %s already present, skipping", user.Username)
			continue
		}

		if res := db.Create(&user); res.Error != nil {
			return res.Error
		}
	}

	return nil
}

// SeedStarterDecks gives each demo user one deck of randomly chosen catalog
// cards. A user who already owns a deck keeps it and is skipped.
func SeedStarterDecks(db *gorm.DB) error {
	starters := []struct {
		email    string
		deckName string
	}{
		{"red@example.com", "Starter Deck Red"},
		{"blue@example.com", "Starter Deck Blue"},
	}

	for _, starter := range starters {
		user, err := database.FindUserByEmail(db, starter.email)
		if err != nil {
			return err
		}

		if user == nil {
			continue
		}

		var count int64
		res := db.Model(&database.Deck{}).Where("user_id = ?", user.ID).Count(&count)
		if res.Error != nil {
			return res.Error
		}

		if count > 0 {
			log.Printf("user %s already has a deck, skipping starter", starter.email)
			continue
		}

		ids, err := randomCardIDs(db, deckSize)
		if err != nil {
			return err
		}

		if _, err := database.CreateDeck(db, user.ID, starter.deckName, ids); err != nil {
			return err
		}
	}

	return nil
}

const deckSize = 10

// randomCardIDs draws n distinct cards from the catalog. RANDOM() is
// understood by both postgres and sqlite.
func randomCardIDs(db *gorm.DB, n int) ([]uint, error) {
	var cards []database.Card

	res := db.Order("RANDOM()").Limit(n).Find(&cards)
	if res.Error != nil {
		return nil, res.Error
	}

	if len(cards) < n {
		return nil, fmt.Errorf("catalog has only %d cards, need %d for a starter deck", len(cards), n)
	}

	ids := make([]uint, n)
	for i, card := range cards {
		ids[i] = card.ID
	}

	return ids, nil
}

// Run migrates the schema and seeds users, the card catalog, and one starter
// deck per demo user.
func Run(db *gorm.DB, dataPath string) error {
	if err := database.Migrate(db); err != nil {
		return err
	}

	if err := SeedUsers(db, "password123"); err != nil {
		return err
	}

	entries, err := LoadCardEntries(dataPath)
	if err != nil {
		return err
	}

	if err := SeedCards(db, entries); err != nil {
		return err
	}

	return SeedStarterDecks(db)
}
