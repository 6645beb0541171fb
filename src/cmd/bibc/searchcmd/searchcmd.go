package searchcmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibcompose/src/internal/config"
	"bibcompose/src/internal/store"
)

// OpenStore opens the record store behind a DSN. The returned close
// func may be nil.
type OpenStore func(dsn string) (store.PathFinder, func() error, error)

// New returns the "search" command. The jsonpath expression goes to
// PostgreSQL unvalidated; syntax mistakes in it are suppressed and
// yield an empty result rather than an error.
func New(open OpenStore) *cobra.Command {
	var cfgPath, expr string
	var full bool
	cmd := &cobra.Command{
		Use:   "search",
		Short: "Search stored records with a jsonpath predicate",
		RunE: func(cmd *cobra.Command, args []string) error {
			if strings.TrimSpace(expr) == "" {
				return fmt.Errorf("--expr is required")
			}
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			if cfg.Store.DSN == "" {
				return fmt.Errorf("store.dsn is not configured")
			}
			finder, closeStore, err := open(cfg.Store.DSN)
			if err != nil {
				return err
			}
			if closeStore != nil {
				defer closeStore()
			}
			refs, err := store.SuppressingUserInputError(func() ([]store.Ref, error) {
				return finder.ByJSONPath(cmd.Context(), expr)
			})
			if err != nil {
				return err
			}
			if full {
				out, err := yaml.Marshal(refs)
				if err != nil {
					return err
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			for _, r := range refs {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\n", r.Dataset, r.Reference)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config YAML")
	cmd.Flags().StringVar(&expr, "expr", "", `jsonpath predicate, e.g. '$.docid[*] ? (@.id == "10.1/x")'`)
	cmd.Flags().BoolVar(&full, "full", false, "print matched records as YAML")
	return cmd
}
