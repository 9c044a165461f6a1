package main

import "github.com/joho/godotenv"

func main() {
	// Local .env overlays for development; missing files are fine.
	_ = godotenv.Load(".env.local")
	_ = godotenv.Load(".env")

	Execute()
}
