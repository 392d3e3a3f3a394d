package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/harini-paramasivam/personal-memory-search-engine/internal/cli"
)

func main() {
	// Optional .env for OPENAI_API_KEY / ANTHROPIC_API_KEY during development.
	_ = godotenv.Load()

	if err := cli.Execute(); err != nil {
		os.Exit(1)
	}
}
