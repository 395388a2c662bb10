// Package get prints the events listed for a city.
package get

import (
	"context"
	"errors"

	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/printers"
)

type Get struct {
	City       string
	Search     string
	ShowID     bool
	JSON       bool
	Controller *listing.Controller

	Printer *printers.PrettyPrint
}

func (g *Get) Do(ctx context.Context) error {
	if g.Controller == nil {
		return errors.New("get: no controller")
	}
	if err := g.Controller.Load(ctx, g.City); err != nil {
		return err
	}
	g.Controller.FilterResults(g.Search)

	pp := g.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.ShowID = g.ShowID
	if g.JSON {
		return pp.JSON(g.Controller.Events())
	}
	pp.NewLine()
	pp.Title(printers.CityName(g.Controller.City()))
	pp.NewLine()
	pp.Groups(g.Controller.Groups())
	return nil
}
