package main

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq" // registers the postgres driver
	"github.com/spf13/cobra"

	"bibcompose/src/cmd/bibc/citationcmd"
	"bibcompose/src/internal/store"
)

// newCitationCmd builds the `bibc citation` subcommand, wired to the
// Postgres reference store.
func newCitationCmd() *cobra.Command {
	return citationcmd.New(func(dsn string) (store.Finder, func() error, error) {
		return openRefStore(dsn)
	})
}

// openRefStore connects to the reference store named by dsn. The returned
// closer releases the underlying connection pool.
func openRefStore(dsn string) (*store.Postgres, func() error, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, nil, fmt.Errorf("open reference store: %w", err)
	}
	return store.NewPostgres(db), db.Close, nil
}
