package commands

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/listings/pkg/cart"
	"tableflip.dev/listings/pkg/commands/options"
	"tableflip.dev/listings/pkg/config"
	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/source"
	"tableflip.dev/listings/pkg/store"
)

// session is everything a command needs to browse events and edit the cart.
type session struct {
	Config     *config.Config
	Cart       *cart.Store
	Controller *listing.Controller
}

func openSession(ctx context.Context, so *options.SourceOptions, reg prometheus.Registerer, opts ...listing.Option) (*session, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if so != nil {
		if err := so.Apply(cfg); err != nil {
			return nil, err
		}
	}
	p, err := store.Load(cfg)
	if err != nil {
		return nil, err
	}
	c, err := cart.Open(ctx, p)
	if err != nil {
		return nil, err
	}
	src, err := source.New(cfg, reg)
	if err != nil {
		return nil, err
	}
	opts = append([]listing.Option{listing.WithCities(cfg.Cities...), listing.WithCity(cfg.City)}, opts...)
	return &session{
		Config:     cfg,
		Cart:       c,
		Controller: listing.New(src, c, opts...),
	}, nil
}
