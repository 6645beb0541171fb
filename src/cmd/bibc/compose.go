package main

import (
	"github.com/spf13/cobra"

	"bibcompose/src/cmd/bibc/composecmd"
)

// newComposeCmd builds the `bibc compose` subcommand.
func newComposeCmd() *cobra.Command {
	return composecmd.New()
}
