package initializers

import (
	"log"

	"github.com/joho/godotenv"
)

// LoadEnv reads a .env file into the process environment when one is present.
// Variables already set in the environment win.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
}
