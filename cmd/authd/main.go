package main

import (
	"log"

	"github.com/joho/godotenv"

	"github.com/emberline/staffauth/internal/auth/app"
)

func main() {
	// Missing .env is fine; real deployments set the environment directly.
	_ = godotenv.Load()

	cfg, err := app.LoadConfig()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	application, err := app.New(cfg)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	if err := application.Run(); err != nil {
		log.Fatalf("run: %v", err)
	}
}
