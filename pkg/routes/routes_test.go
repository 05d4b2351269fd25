package routes

import (
	"testing"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/tcgdecks/api/pkg/auth"
	"github.com/tcgdecks/api/pkg/database"
)

// setupTestDB opens a unique in-memory database per test to avoid
// cross-test collisions.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := "file:" + t.Name() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return db
}

func testTokenManager() *auth.TokenManager {
	return auth.NewTokenManager("test-secret")
}

// seedCards inserts n catalog cards and returns their ids.
func seedCards(t *testing.T, db *gorm.DB, n int) []uint {
	t.Helper()

	var ids []uint
	for i := 1; i <= n; i++ {
		card := database.Card{
			Name:          "Testmon",
			HP:            40 + i,
			Attack:        30 + i,
			Type:          "Normal",
			PokedexNumber: i,
		}
		if res := db.Create(&card); res.Error != nil {
			t.Fatalf("seed card: %v", res.Error)
		}
		ids = append(ids, card.ID)
	}

	return ids
}

func seedUser(t *testing.T, db *gorm.DB, username, email string) database.User {
	t.Helper()

	user := database.User{
		Username: username,
		Email:    email,
		Password: "x",
	}
	if res := db.Create(&user); res.Error != nil {
		t.Fatalf("seed user: %v", res.Error)
	}

	return user
}
