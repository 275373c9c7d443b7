package main

import (
	"os"

	"github.com/kz-accountant/accountant/internal/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}
