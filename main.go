// Package main implements the main function
package main

import (
	"os"

	"github.com/diogovalentte/mangadex-talker/src/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
