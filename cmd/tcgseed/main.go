package main

import (
	"flag"
	"log"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tcgdecks/api/pkg/config"
	"github.com/tcgdecks/api/pkg/seed"
)

func main() {
	dataPath := flag.String("data", "data/pokemon.json", "path to the card catalog JSON")
	flag.Parse()

	godotenv.Load()

	cfg := config.Load()

	d, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v\n", err)
	}

	if err := seed.Run(d, *dataPath); err != nil {
		log.Fatalf("seed failed: %v\n", err)
	}

	log.Println("seed complete")
}
