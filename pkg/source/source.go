// Package source fetches the events listed for a city.
package source

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/listings/pkg/config"
	"tableflip.dev/listings/pkg/event"
)

// Source returns every event listed for a city. Implementations must be safe
// to call from a goroutine other than the UI loop.
type Source interface {
	Fetch(ctx context.Context, city string) ([]*event.Event, error)
}

// Func adapts a function to Source.
type Func func(ctx context.Context, city string) ([]*event.Event, error)

func (f Func) Fetch(ctx context.Context, city string) ([]*event.Event, error) {
	return f(ctx, city)
}

var ErrUnknownCity = errors.New("source: no listings for city")

// WithTimeout bounds each fetch by d.
func WithTimeout(src Source, d time.Duration) Source {
	if d <= 0 {
		return src
	}
	return Func(func(ctx context.Context, city string) ([]*event.Event, error) {
		ctx, cancel := context.WithTimeout(ctx, d)
		defer cancel()
		return src.Fetch(ctx, city)
	})
}

// New builds the configured source wrapped with a timeout, a circuit
// breaker and metrics. reg may be nil to skip instrumentation.
func New(cfg *config.Config, reg prometheus.Registerer) (Source, error) {
	if cfg == nil {
		return nil, errors.New("source: config required")
	}
	var src Source
	switch cfg.Source {
	case config.SourceSample, "":
		src = NewSample(time.Now())
	case config.SourceDir:
		src = &Dir{Path: cfg.Catalog}
	case config.SourceHTTP:
		if strings.TrimSpace(cfg.URL) == "" {
			return nil, errors.New("source: http source requires a url")
		}
		src = &HTTP{BaseURL: cfg.URL}
	default:
		return nil, fmt.Errorf("source: unknown source %q", cfg.Source)
	}
	src = WithTimeout(src, cfg.Timeout)
	src = NewBreaker(cfg.Source, src)
	if reg != nil {
		instrumented, err := Instrument(src, reg)
		if err != nil {
			return nil, err
		}
		src = instrumented
	}
	return src, nil
}

// stamp fills in the city on events that omit it.
func stamp(city string, events []*event.Event) []*event.Event {
	for _, e := range events {
		if e != nil && e.City == "" {
			e.City = city
		}
	}
	return events
}
