package main

import (
	"github.com/spf13/cobra"

	"bibcompose/src/cmd/bibc/searchcmd"
	"bibcompose/src/internal/store"
)

// newSearchCmd builds the `bibc search` subcommand, wired to the
// Postgres reference store.
func newSearchCmd() *cobra.Command {
	return searchcmd.New(func(dsn string) (store.PathFinder, func() error, error) {
		return openRefStore(dsn)
	})
}
