package main

import (
	"github.com/joho/godotenv"

	"github.com/artifex-data/heimr/internal/cli"
)

func main() {
	_ = godotenv.Load(".env.local")
	cli.Execute()
}
