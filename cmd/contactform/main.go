package main

import (
	"context"
	"log"
	"os"

	"github.com/joho/godotenv"

	"github.com/fisacferrandez/contactform/internal/app"
)

func main() {
	// Missing .env is fine; environment variables still apply.
	_ = godotenv.Load()

	ctx := context.Background()
	if err := app.Run(ctx, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
