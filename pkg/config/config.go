package config

import (
	"log"
	"os"
	"strings"
)

// Config carries everything the process reads from its environment. It is
// built once at startup and handed to the constructors that need it; nothing
// reads os.Getenv after Load returns.
type Config struct {
	Port        string
	DatabaseURL string
	JWTSecret   string
}

var requiredEnv = []string{
	"DATABASE_URL",
	"JWT_SECRET",
}

func Load() Config {
	missing := checkenv(requiredEnv)
	if len(missing) != 0 {
		log.Fatalf("missing %v in env", strings.Join(missing, ", "))
	}

	return Config{
		Port:        getEnv("PORT", "8080"),
		DatabaseURL: os.Getenv("DATABASE_URL"),
		JWTSecret:   os.Getenv("JWT_SECRET"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func checkenv(keys []string) []string {
	var missing []string
	for _, key := range keys {
		if val, ok := os.LookupEnv(key); len(val) == 0 || !ok {
			missing = append(missing, key)
		}
	}

	return missing
}
