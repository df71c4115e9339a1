package main

import (
	"os"

	// Load a local .env file, if present, before any config parsing so that
	// ${VAR} references in config.yaml resolve.
	_ "github.com/joho/godotenv/autoload"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
