package main

import (
	"os"

	"github.com/mohdibrahimai/uire/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
