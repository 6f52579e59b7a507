package config

import (
	"os"

	"github.com/joho/godotenv"
)

var loaded bool

// Config returns the value of an environment variable, loading .env once on
// first use. Missing keys return the empty string.
func Config(key string) string {
	if !loaded {
		godotenv.Load(".env")
		loaded = true
	}
	return os.Getenv(key)
}
