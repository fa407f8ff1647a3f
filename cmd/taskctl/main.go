// Package main is the entry point for the taskctl operator CLI.
package main

import (
	"os"

	"github.com/joho/godotenv"

	"github.com/Skotchmaster/task_service/internal/cli"
)

func main() {
	_ = godotenv.Load()
	os.Exit(cli.Execute())
}
