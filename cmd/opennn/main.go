package main

import (
	"os"

	"github.com/Pe4enIks/OpenNN/cmd/opennn/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
