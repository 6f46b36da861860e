package config

import (
	"log"

	"github.com/joho/godotenv"
)

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}

// LoadDotEnv loads the first of paths that exists. None existing is not an error.
func LoadDotEnv(paths ...string) {
	for _, p := range paths {
		if err := godotenv.Load(p); err == nil {
			return
		}
	}
	log.Printf("notice: no .env file found in %v, using process environment", paths)
}
