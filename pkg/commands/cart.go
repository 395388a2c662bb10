package commands

import (
	"context"

	"github.com/spf13/cobra"

	"tableflip.dev/listings/pkg/commands/options"
	runner "tableflip.dev/listings/pkg/runner/cart"
)

func addCart(topLevel *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "cart",
		Short: "Show or change the cart",
		Example: `
listings cart
listings cart add london-03 --city london
listings cart remove london-03
`,
	}

	list := cartCommand(runner.List, "list", "Show the cart and its total", cobra.NoArgs)
	cmd.AddCommand(
		list,
		cartCommand(runner.Add, "add <id>...", "Add events of a city to the cart", cobra.MinimumNArgs(1)),
		cartCommand(runner.Remove, "remove <id>...", "Remove events from the cart", cobra.MinimumNArgs(1)),
	)
	// "listings cart" alone lists.
	cmd.Args = cobra.NoArgs
	cmd.RunE = list.RunE
	options.AddOutputArg(cmd, output)

	topLevel.AddCommand(cmd)
}

func cartCommand(action runner.Action, use, short string, args cobra.PositionalArgs) *cobra.Command {
	so := &options.SourceOptions{}
	io := &options.IDOptions{}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  args,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true
			ctx := context.Background()
			s, err := openSession(ctx, so, nil)
			if err != nil {
				return output.HandleError(err)
			}
			city := s.Config.City
			if action == runner.Remove {
				// Without --city an id matches the cart in any city.
				city = so.City
			}
			c := runner.Cart{
				Action:     action,
				IDs:        args,
				City:       city,
				ShowID:     io.ShowID,
				JSON:       output.JSON,
				Controller: s.Controller,
			}
			err = c.Do(ctx)
			return output.HandleError(err)
		},
	}
	if action == runner.Remove {
		cmd.Aliases = []string{"rm"}
		cmd.Flags().StringVar(&so.City, "city", "", "Only remove the event listed in this city.")
		_ = cmd.RegisterFlagCompletionFunc("city", cityCompletions)
	}
	if action == runner.Add {
		options.AddSourceArgs(cmd, so)
		_ = cmd.RegisterFlagCompletionFunc("city", cityCompletions)
	}
	options.AddShowIDArgs(cmd, io)
	options.AddOutputArg(cmd, output)
	return cmd
}
