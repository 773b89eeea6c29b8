// Package main provides the entry point for the hyprwatch CLI.
package main

import (
	"fmt"
	"os"

	"github.com/hyprwatch/hyprwatch/cmd/hyprwatch/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
