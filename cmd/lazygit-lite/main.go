// Package main is the entry point for the lazygit-lite terminal repository
// browser.
package main

import (
	"fmt"
	"os"

	"github.com/lazygit-lite/lazygit-lite/cmd/lazygit-lite/commands"
)

func main() {
	if err := commands.NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
