package source

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"tableflip.dev/listings/pkg/event"
)

type instrumented struct {
	src      Source
	fetches  *prometheus.CounterVec
	duration *prometheus.HistogramVec
	events   *prometheus.GaugeVec
}

// Instrument records fetch counts, latency and result sizes per city on reg.
func Instrument(src Source, reg prometheus.Registerer) (Source, error) {
	in := &instrumented{
		src: src,
		fetches: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "listings_fetches_total",
				Help: "Total event fetches",
			},
			[]string{"city", "status"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "listings_fetch_duration_seconds",
				Help:    "Duration of event fetches",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"city"},
		),
		events: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "listings_events",
				Help: "Events returned by the last successful fetch",
			},
			[]string{"city"},
		),
	}
	for _, c := range []prometheus.Collector{in.fetches, in.duration, in.events} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return in, nil
}

func (in *instrumented) Fetch(ctx context.Context, city string) ([]*event.Event, error) {
	start := time.Now()
	events, err := in.src.Fetch(ctx, city)
	in.duration.WithLabelValues(city).Observe(time.Since(start).Seconds())
	if err != nil {
		in.fetches.WithLabelValues(city, "error").Inc()
		return nil, err
	}
	in.fetches.WithLabelValues(city, "ok").Inc()
	in.events.WithLabelValues(city).Set(float64(len(events)))
	return events, nil
}
