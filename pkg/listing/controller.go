// Package listing holds the event list state machine: the events fetched
// for the selected city, the cart-excluded and search-filtered view derived
// from them, and the date shown for the current scroll position.
//
// A Controller is not safe for concurrent use. All mutating calls are
// expected to come from one loop (the UI's update loop); only Fetch may run
// elsewhere.
package listing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"tableflip.dev/listings/pkg/cart"
	"tableflip.dev/listings/pkg/event"
	"tableflip.dev/listings/pkg/source"
)

var (
	ErrUnknownCity = errors.New("listing: unknown city")
	ErrNoSource    = errors.New("listing: no event source configured")
	ErrNoCart      = errors.New("listing: no cart configured")
)

// DefaultCities is used when no cities are configured.
var DefaultCities = []string{"berlin", "london"}

// Request identifies one city fetch. Token increases with every SelectCity.
type Request struct {
	City  string
	Token uint64
}

// Result is the outcome of fetching a Request.
type Result struct {
	Request
	Events []*event.Event
	Err    error
}

// Controller owns the event list state for one view.
type Controller struct {
	source    source.Source
	cart      cart.Registry
	cities    []string
	threshold int

	city    string
	token   uint64
	loading bool
	err     error

	all       []*event.Event
	filtered  []*event.Event
	search    string
	displayed time.Time
}

// Option configures a Controller.
type Option func(*Controller)

// WithCities sets the selectable cities. The first is selected initially.
func WithCities(cities ...string) Option {
	return func(c *Controller) {
		c.cities = c.cities[:0]
		for _, city := range cities {
			city = strings.ToLower(strings.TrimSpace(city))
			if city != "" {
				c.cities = append(c.cities, city)
			}
		}
	}
}

// WithCity sets the initially selected city.
func WithCity(city string) Option {
	return func(c *Controller) {
		c.city = strings.ToLower(strings.TrimSpace(city))
	}
}

// WithDateThreshold sets how far from the viewport top a marker may sit and
// still count as the displayed date.
func WithDateThreshold(threshold int) Option {
	return func(c *Controller) {
		c.threshold = threshold
	}
}

// New returns a controller reading events from src and excluding events held
// in reg.
func New(src source.Source, reg cart.Registry, opts ...Option) *Controller {
	c := &Controller{
		source:    src,
		cart:      reg,
		cities:    append([]string(nil), DefaultCities...),
		threshold: DefaultDateThreshold,
	}
	for _, opt := range opts {
		opt(c)
	}
	if len(c.cities) == 0 {
		c.cities = append(c.cities, DefaultCities...)
	}
	if !c.knownCity(c.city) {
		c.city = c.cities[0]
	}
	return c
}

// SelectCity makes city current and issues a fetch request for it. Results of
// earlier requests are discarded by Apply from here on.
func (c *Controller) SelectCity(city string) (Request, error) {
	city = strings.ToLower(strings.TrimSpace(city))
	if !c.knownCity(city) {
		return Request{}, fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	c.token++
	c.city = city
	c.loading = true
	return Request{City: city, Token: c.token}, nil
}

// Fetch runs req against the source. It reads no mutable controller state
// and may be called off the update loop.
func (c *Controller) Fetch(ctx context.Context, req Request) Result {
	if c.source == nil {
		return Result{Request: req, Err: ErrNoSource}
	}
	events, err := c.source.Fetch(ctx, req.City)
	return Result{Request: req, Events: events, Err: err}
}

// Apply installs a fetch result. It returns false, changing nothing, when
// res belongs to a request superseded by a later SelectCity. A failed fetch
// leaves the lists untouched and records the error.
func (c *Controller) Apply(res Result) bool {
	if res.Token != c.token {
		return false
	}
	c.loading = false
	if res.Err != nil {
		c.err = res.Err
		return true
	}
	c.err = nil

	all := make([]*event.Event, 0, len(res.Events))
	for _, e := range res.Events {
		if e != nil {
			all = append(all, e)
		}
	}
	event.SortByDate(all)
	c.all = all
	c.recompute()
	if len(c.filtered) > 0 {
		c.displayed = c.filtered[0].Date
	}
	return true
}

// Load selects city and fetches it synchronously.
func (c *Controller) Load(ctx context.Context, city string) error {
	req, err := c.SelectCity(city)
	if err != nil {
		return err
	}
	res := c.Fetch(ctx, req)
	c.Apply(res)
	return res.Err
}

// FilterResults narrows the view to events whose title contains text,
// ignoring case. Empty text clears the filter. Cart members stay excluded
// either way, and the date order of the fetched events is kept.
func (c *Controller) FilterResults(text string) {
	c.search = text
	c.recompute()
}

// Refresh re-derives the view, e.g. after the cart changed elsewhere.
func (c *Controller) Refresh() {
	c.recompute()
}

// AddToCart puts e in the cart and drops it from the view.
func (c *Controller) AddToCart(e *event.Event) error {
	if e == nil {
		return cart.ErrNilEvent
	}
	if c.cart == nil {
		return ErrNoCart
	}
	if err := c.cart.Add(e); err != nil {
		return err
	}
	if idx := event.IndexOf(c.filtered, e); idx >= 0 {
		filtered := make([]*event.Event, 0, len(c.filtered)-1)
		filtered = append(filtered, c.filtered[:idx]...)
		c.filtered = append(filtered, c.filtered[idx+1:]...)
	}
	return nil
}

// RemoveFromCart takes e out of the cart and puts it back in the view,
// re-sorted by date. Cart membership and the view stay symmetric: the event
// only reappears when it belongs to the current city and matches the
// current search.
func (c *Controller) RemoveFromCart(e *event.Event) error {
	if e == nil {
		return cart.ErrNilEvent
	}
	if c.cart == nil {
		return ErrNoCart
	}
	if err := c.cart.Remove(e); err != nil {
		return err
	}
	if event.IndexOf(c.filtered, e) >= 0 {
		return nil
	}
	idx := event.IndexOf(c.all, e)
	if idx < 0 {
		return nil
	}
	member := c.all[idx]
	if !member.Matches(c.search) {
		return nil
	}
	filtered := make([]*event.Event, 0, len(c.filtered)+1)
	filtered = append(filtered, c.filtered...)
	filtered = append(filtered, member)
	event.SortByDate(filtered)
	c.filtered = filtered
	return nil
}

func (c *Controller) recompute() {
	filtered := make([]*event.Event, 0, len(c.all))
	for _, e := range c.all {
		if c.cart != nil && c.cart.Contains(e) {
			continue
		}
		if !e.Matches(c.search) {
			continue
		}
		filtered = append(filtered, e)
	}
	c.filtered = filtered
}

func (c *Controller) knownCity(city string) bool {
	for _, known := range c.cities {
		if known == city {
			return true
		}
	}
	return false
}

// City is the selected city.
func (c *Controller) City() string { return c.city }

// Cities lists the selectable cities in order.
func (c *Controller) Cities() []string { return append([]string(nil), c.cities...) }

// NextCity returns the city after the selected one, wrapping around.
func (c *Controller) NextCity(step int) string {
	n := len(c.cities)
	for i, city := range c.cities {
		if city == c.city {
			return c.cities[((i+step)%n+n)%n]
		}
	}
	return c.cities[0]
}

// Events returns the current filtered view.
func (c *Controller) Events() []*event.Event {
	return append(make([]*event.Event, 0, len(c.filtered)), c.filtered...)
}

// All returns every event fetched for the current city, date ordered.
func (c *Controller) All() []*event.Event {
	return append(make([]*event.Event, 0, len(c.all)), c.all...)
}

// Groups returns the filtered view split into calendar days.
func (c *Controller) Groups() []event.Group {
	return event.GroupByDay(c.filtered)
}

// Cart returns the events currently in the cart.
func (c *Controller) Cart() []*event.Event {
	if c.cart == nil {
		return []*event.Event{}
	}
	return append([]*event.Event{}, c.cart.List()...)
}

// Search is the active search text.
func (c *Controller) Search() string { return c.search }

// DisplayedDate is the date heading for the current scroll position. ok is
// false until a date has been set.
func (c *Controller) DisplayedDate() (date time.Time, ok bool) {
	return c.displayed, !c.displayed.IsZero()
}

// Loading reports whether the latest fetch is still outstanding.
func (c *Controller) Loading() bool { return c.loading }

// Err is the error from the latest fetch, if it failed.
func (c *Controller) Err() error { return c.err }
