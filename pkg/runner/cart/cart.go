// Package cart lists and edits the cart from the command line.
package cart

import (
	"context"
	"errors"
	"fmt"

	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/printers"
)

// ErrNotFound is returned when an id is not listed for the city or the cart.
var ErrNotFound = errors.New("cart: event not found")

type Action string

const (
	List   Action = "list"
	Add    Action = "add"
	Remove Action = "remove"
)

type Cart struct {
	Action     Action
	IDs        []string
	City       string
	ShowID     bool
	JSON       bool
	Controller *listing.Controller

	Printer *printers.PrettyPrint
}

func (c *Cart) Do(ctx context.Context) error {
	if c.Controller == nil {
		return errors.New("cart: no controller")
	}
	switch c.Action {
	case "", List:
	case Add:
		if err := c.add(ctx); err != nil {
			return err
		}
	case Remove:
		if err := c.remove(); err != nil {
			return err
		}
	default:
		return fmt.Errorf("cart: unknown action %q", c.Action)
	}
	return c.print()
}

func (c *Cart) add(ctx context.Context) error {
	if len(c.IDs) == 0 {
		return errors.New("cart: no event ids given")
	}
	if err := c.Controller.Load(ctx, c.City); err != nil {
		return err
	}
	all := c.Controller.All()
	for _, id := range c.IDs {
		idx := event.IndexByID(all, id)
		if idx < 0 {
			return fmt.Errorf("%w: %q in %s", ErrNotFound, id, c.Controller.City())
		}
		if err := c.Controller.AddToCart(all[idx]); err != nil {
			return err
		}
	}
	return nil
}

func (c *Cart) remove() error {
	if len(c.IDs) == 0 {
		return errors.New("cart: no event ids given")
	}
	for _, id := range c.IDs {
		held := c.find(id)
		if held == nil {
			return fmt.Errorf("%w: %q", ErrNotFound, id)
		}
		if err := c.Controller.RemoveFromCart(held); err != nil {
			return err
		}
	}
	return nil
}

// find looks id up in the cart, within City when one was given.
func (c *Cart) find(id string) *event.Event {
	events := c.Controller.Cart()
	if idx := event.IndexOf(events, &event.Event{ID: id, City: c.City}); idx >= 0 {
		return events[idx]
	}
	return nil
}

func (c *Cart) print() error {
	pp := c.Printer
	if pp == nil {
		pp = &printers.PrettyPrint{}
	}
	pp.ShowID = c.ShowID
	events := c.Controller.Cart()
	if c.JSON {
		return pp.JSON(events)
	}
	pp.NewLine()
	pp.Cart(events...)
	return nil
}
