package main

import (
	"os"

	"github.com/ashev87/safechat/cmd/safechat/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		os.Exit(1)
	}
}
