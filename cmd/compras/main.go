package main

import (
	"os"

	"github.com/compras-dev/compras/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
