package composecmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibcompose/src/internal/compose"
	"bibcompose/src/internal/crossref"
	"bibcompose/src/internal/openlibrary"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
	"bibcompose/src/internal/store"
)

// New returns the "compose" command.
func New() *cobra.Command {
	var primaryID, primaryType string
	var lenient bool
	cmd := &cobra.Command{
		Use:   "compose [ref.yaml...]",
		Short: "Merge physical record files into one composite record",
		Long: "Merge physical record files into one composite record with per-record provenance.\n" +
			"Files are merged in argument order; pass the newest record first so its values win.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			refs := make([]store.Ref, 0, len(args))
			for _, path := range args {
				data, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				var r store.Ref
				if err := yaml.Unmarshal(data, &r); err != nil {
					return fmt.Errorf("parse %s: %w", path, err)
				}
				refs = append(refs, r)
			}
			primary, err := primaryFlag(primaryID, primaryType)
			if err != nil {
				return err
			}
			reg := sources.NewRegistry()
			reg.Register("crossref", crossref.SourceMeta())
			reg.Register("openlibrary", openlibrary.SourceMeta())
			comp, valid, err := compose.New(reg, nil).Compose(refs, primary, !lenient)
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
	cmd.Flags().StringVar(&primaryID, "primary-id", "", "id of the primary identifier")
	cmd.Flags().StringVar(&primaryType, "primary-type", "", "type of the primary identifier")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "capture validation problems instead of failing")
	return cmd
}

func primaryFlag(id, typ string) (*schema.DocID, error) {
	if id == "" && typ == "" {
		return nil, nil
	}
	if id == "" || typ == "" {
		return nil, fmt.Errorf("--primary-id and --primary-type must be used together")
	}
	return &schema.DocID{Type: typ, ID: id, Primary: true}, nil
}
