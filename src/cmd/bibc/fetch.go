package main

import (
	"github.com/spf13/cobra"

	"bibcompose/src/cmd/bibc/fetchcmd"
)

// newFetchCmd builds the `bibc fetch` subcommand.
func newFetchCmd() *cobra.Command {
	return fetchcmd.New()
}
