package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// LoadEnv reads ENV_FILE (default .env) into the process environment.
// Variables already set win, and a missing file is not an error.
func LoadEnv() {
	file := GetEnv("ENV_FILE", ".env")
	if err := godotenv.Load(file); err != nil && !os.IsNotExist(err) {
		log.Printf("env file %s: %v", file, err)
	}
}

// GetEnv returns the variable or def when unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
