package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/yassine-ta/credentialforge/cmd/credentialforge/cmd"
)

func main() {
	// Optional .env for LLM keys and operator defaults.
	_ = godotenv.Load()

	if err := cmd.Execute(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
