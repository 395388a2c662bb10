package commands

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"tableflip.dev/listings/pkg/commands/options"
	"tableflip.dev/listings/pkg/runner/get"
)

func addGet(topLevel *cobra.Command) {
	so := &options.SourceOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   "get [search]",
		Short: "List upcoming events for a city, grouped by day",
		Long: `List upcoming events for a city, grouped by day.

Any arguments are joined into a case-insensitive search on the event title.
Events already in the cart are left out.`,
		Example: `
listings get
listings get --city berlin jazz
listings get --json
`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, err := openSession(ctx, so, nil)
			if err != nil {
				return output.HandleError(err)
			}
			g := get.Get{
				City:       s.Config.City,
				Search:     strings.Join(args, " "),
				ShowID:     io.ShowID,
				JSON:       output.JSON,
				Controller: s.Controller,
			}
			err = g.Do(ctx)
			return output.HandleError(err)
		},
	}

	options.AddSourceArgs(cmd, so)
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	_ = cmd.RegisterFlagCompletionFunc("city", cityCompletions)

	topLevel.AddCommand(cmd)
}
