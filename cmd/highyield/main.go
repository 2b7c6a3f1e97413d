package main

import (
	"os"

	"github.com/dividendlab/highyield/cmd/highyield/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
