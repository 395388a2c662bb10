// Package options defines shared flag helpers for CLI commands.
package options

import (
	"strings"
	"time"

	"github.com/spf13/cobra"

	"tableflip.dev/listings/pkg/config"
)

// SourceOptions override where events are fetched from.
type SourceOptions struct {
	City    string
	Source  string
	Catalog string
	URL     string
	Timeout time.Duration
}

// AddSourceArgs wires the event source flags on the provided command.
func AddSourceArgs(cmd *cobra.Command, o *SourceOptions) {
	cmd.Flags().StringVarP(&o.City, "city", "c", "",
		"Specify the city. Defaults to the configured city.")
	cmd.Flags().StringVar(&o.Source, "source", "",
		"Where events come from, one of 'sample', 'dir' or 'http'.")
	cmd.Flags().StringVar(&o.Catalog, "catalog", "",
		"Directory holding <city>.json files for the dir source.")
	cmd.Flags().StringVar(&o.URL, "url", "",
		"Base url of the events service for the http source.")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", 0,
		"Fetch timeout, e.g. 3s.")
}

// Apply copies the flags that were set onto cfg. A city that is not
// configured is added to the city list.
func (o *SourceOptions) Apply(cfg *config.Config) error {
	if o.Source != "" {
		cfg.Source = o.Source
	}
	if o.Catalog != "" {
		cfg.Catalog = o.Catalog
	}
	if o.URL != "" {
		cfg.URL = o.URL
	}
	if o.Timeout > 0 {
		cfg.Timeout = o.Timeout
	}
	if city := strings.ToLower(strings.TrimSpace(o.City)); city != "" {
		known := false
		for _, c := range cfg.Cities {
			if c == city {
				known = true
				break
			}
		}
		if !known {
			cfg.Cities = append(cfg.Cities, city)
		}
		cfg.City = city
	}
	return cfg.Normalize()
}
