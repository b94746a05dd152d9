package main // Entry point package

import (
	"os"

	"github.com/iliyamo/skyblock-shop/cmd/server/commands" // CLI commands
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1) // cobra already printed the error
	}
}
