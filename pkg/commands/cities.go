package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/listings/pkg/config"
	"tableflip.dev/listings/pkg/runner/cities"
)

func addCities(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cities",
		Short: "List the configured cities, marking the default",
		Example: `
listings cities
`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, err := openSession(ctx, nil, nil)
			if err != nil {
				return output.HandleError(err)
			}
			c := cities.Cities{Controller: s.Controller, JSON: output.JSON}
			err = c.Do(ctx)
			return output.HandleError(err)
		},
	}

	topLevel.AddCommand(cmd)
}

func cityCompletions(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	cfg, err := config.Load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	out := make([]string, 0, len(cfg.Cities))
	for _, city := range cfg.Cities {
		if strings.HasPrefix(city, strings.ToLower(toComplete)) {
			out = append(out, city)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}
