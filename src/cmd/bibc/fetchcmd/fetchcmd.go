package fetchcmd

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"bibcompose/src/internal/config"
	"bibcompose/src/internal/crossref"
	"bibcompose/src/internal/httpx"
	"bibcompose/src/internal/openlibrary"
	"bibcompose/src/internal/schema"
	"bibcompose/src/internal/sources"
)

// httpClient, when set, replaces the transport used for provider calls.
var httpClient httpx.Doer

// SetHTTPClient allows tests to inject a fake HTTP client.
func SetHTTPClient(d httpx.Doer) { httpClient = d }

// New returns the "fetch" command.
func New() *cobra.Command {
	var cfgPath, idType string
	var lenient bool
	cmd := &cobra.Command{
		Use:   "fetch [id]",
		Short: "Fetch document metadata from Crossref or OpenLibrary as a canonical record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgPath)
			if err != nil {
				return err
			}
			et := crossref.Etiquette{
				AppName:    cfg.Service.Name,
				AppVersion: cfg.Service.Version,
				AppURL:     cfg.Service.URL,
				Email:      cfg.Service.Email,
			}
			kind := strings.ToUpper(idType)
			id := schema.DocID{Type: kind, ID: args[0]}
			var item sources.ExternalItem
			switch kind {
			case schema.DocIDTypeDOI:
				client := crossref.New(et)
				client.SetAPIBase(cfg.Crossref.APIBase)
				if httpClient != nil {
					client.SetHTTPClient(httpClient)
				} else {
					client.SetHTTPClient(&http.Client{Timeout: cfg.Crossref.Timeout})
				}
				item, err = client.FetchBibItem(cmd.Context(), id, !lenient)
			case schema.DocIDTypeISBN:
				client := openlibrary.New(et.UserAgent())
				client.SetAPIBase(cfg.OpenLibrary.APIBase)
				if httpClient != nil {
					client.SetHTTPClient(httpClient)
				} else {
					client.SetHTTPClient(&http.Client{Timeout: cfg.OpenLibrary.Timeout})
				}
				item, err = client.FetchBibItem(cmd.Context(), id, !lenient)
			default:
				return fmt.Errorf("unsupported identifier type %q", kind)
			}
			if err != nil {
				return err
			}
			if len(item.ValidationErrors) > 0 {
				fmt.Fprintf(cmd.ErrOrStderr(), "record carries %d validation problem(s)\n", len(item.ValidationErrors))
			}
			out, err := yaml.Marshal(item)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	cmd.Flags().StringVar(&cfgPath, "config", "", "path to config YAML")
	cmd.Flags().StringVar(&idType, "type", schema.DocIDTypeDOI, "identifier type, DOI or ISBN")
	cmd.Flags().BoolVar(&lenient, "lenient", false, "capture validation problems instead of failing")
	return cmd
}
