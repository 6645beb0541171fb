package citationcmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibcompose/src/internal/compose"
	"bibcompose/src/internal/config"
	"bibcompose/src/internal/crossref"
	"bibcompose/src/internal/openlibrary"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
	"bibcompose/src/internal/store"
)

// OpenStore opens the record store behind a DSN. The returned close
// func may be nil.
type OpenStore func(dsn string) (store.Finder, func() error, error)

// New returns the "citation" command. Stored records matching the
// identifier are merged, newest first, into one composite record.
func New(open OpenStore) *cobra.Command {
	var cfgPath, idType string
	var lenient bool
	cmd := &cobra.Command{
		Use:   "citation [id]",
		Short: "Build a composite record for a document identifier from stored records",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
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
			docid := schema.DocID{Type: idType, ID: args[0]}
			refs, err := finder.ByDocID(cmd.Context(), store.DocIDQuery(docid))
			if err != nil {
				return err
			}
			if len(refs) == 0 {
				return fmt.Errorf("%s %s: %w", idType, args[0], sources.ErrNotFound)
			}
			reg := sources.NewRegistry()
			reg.Register("crossref", crossref.SourceMeta())
			reg.Register("openlibrary", openlibrary.SourceMeta())
			comp, valid, err := compose.New(reg, nil).Compose(refs, nil, !lenient)
			if err != nil {
				return err
			}
			if !valid {
				fmt.Fprintln(cmd.ErrOrStderr(), "composite carries validation problems from its sources")
			}
			out, err := yaml.Marshal(comp)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config YAML")
	cmd.Flags().StringVar(&idType, "type", schema.DocIDTypeDOI, "identifier type")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "capture validation problems instead of failing")
	return cmd
}
