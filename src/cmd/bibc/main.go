package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "bibc",
	Short: "Bibliographic record CLI (canonical schema + source provenance)",
}

func execute() error {
	// Attach subcommands
	rootCmd.AddCommand(newFetchCmd())
	rootCmd.AddCommand(newComposeCmd())
	rootCmd.AddCommand(newCitationCmd())
	rootCmd.AddCommand(newSearchCmd())
	return rootCmd.Execute()
}

func main() {
	if err := execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
