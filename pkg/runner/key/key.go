// Package key prints the key bindings of the interactive UI.
package key

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/listings/pkg/printers"
	teaui "tableflip.dev/listings/pkg/tui/app"
)

// Key prints a table of key bindings per pane.
type Key struct {
	Printer *printers.PrettyPrint
}

// Do renders one table per pane, in the order the panes first appear.
func (k *Key) Do(ctx context.Context) error {
	pp := k.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.NewLine()

	var panes []string
	byPane := map[string][]teaui.Binding{}
	for _, b := range teaui.Bindings() {
		if _, ok := byPane[b.Pane]; !ok {
			panes = append(panes, b.Pane)
		}
		byPane[b.Pane] = append(byPane[b.Pane], b)
	}
	for _, pane := range panes {
		k.Key(ctx, pp, pane, byPane[pane])
	}
	return nil
}

// Key renders the bindings of a single pane.
func (k *Key) Key(_ context.Context, pp *printers.PrettyPrint, pane string, bindings []teaui.Binding) {
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint(strings.ToUpper(pane[:1])+pane[1:]), bold.Sprint("Action"))
	for _, b := range bindings {
		tbl.AddRow(strings.Join(b.Keys, ", "), b.Help)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
}
