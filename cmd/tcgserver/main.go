package main

import (
	"log"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tcgdecks/api/pkg/auth"
	"github.com/tcgdecks/api/pkg/config"
	"github.com/tcgdecks/api/pkg/database"
	"github.com/tcgdecks/api/pkg/routes"
)

func main() {
	godotenv.Load()

	cfg := config.Load()

	d, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v\n", err)
	}

	database.InitDatabase(d)
	db := database.GetDatabase()

	tokens := auth.NewTokenManager(cfg.JWTSecret)

	r := chi.NewRouter()
	r.Use(middleware.Logger)

	r.Mount("/api/auth", routes.NewAuthRoutes(db, tokens).Routes())
	r.Mount("/api/cards", routes.NewCardRoutes(db).Routes())
	r.Mount("/api/decks", routes.NewDeckRoutes(db, tokens).Routes())

	r.Get("/api/health", routes.Health)

	addr := ":" + cfg.Port
	log.Printf("listening on %s", addr)

	if err := http.ListenAndServe(addr, r); err != nil {
		log.Fatalf("failed to start server: %v\n", err)
	}
}
