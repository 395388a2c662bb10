// Package cities prints the cities the listings can be browsed for.
package cities

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/printers"
)

type Cities struct {
	Controller *listing.Controller
	JSON       bool

	Printer *printers.PrettyPrint
}

func (c *Cities) Do(_ context.Context) error {
	pp := c.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	cities := c.Controller.Cities()
	if c.JSON {
		return pp.JSON(cities)
	}

	bold := color.New(color.Bold)
	tbl := uitable.New()
	tbl.Separator = "  "
	for _, city := range cities {
		marker := " "
		name := printers.CityName(city)
		if city == c.Controller.City() {
			marker = "*"
			name = bold.Sprint(name)
		}
		tbl.AddRow(marker, city, name)
	}
	pp.NewLine()
	pp.Title("Cities")
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
	return nil
}
