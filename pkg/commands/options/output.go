package options

import (
	"encoding/json"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// OutputOptions selects between the colored listing and JSON for get, cart
// and cities.
type OutputOptions struct {
	JSON bool
}

// AddOutputArg registers --json on cmd.
func AddOutputArg(cmd *cobra.Command, po *OutputOptions) {
	cmd.Flags().BoolVar(&po.JSON, "json", false,
		"Print events, the cart or cities as JSON; errors become {\"error\": ...}.")
}

// HandleError keeps --json output machine readable: a failed fetch or an
// unknown event id is printed as {"error": "..."} and the command exits
// cleanly. Without --json err is returned for cobra to report.
func (o *OutputOptions) HandleError(err error) error {
	if err == nil || !o.JSON {
		return err
	}
	b, merr := json.Marshal(struct {
		Error string `json:"error"`
	}{Error: err.Error()})
	if merr != nil {
		return merr
	}
	_, _ = fmt.Fprintln(color.Output, string(b))
	return nil
}
