// Package store persists cart contents on disk.
package store

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/peterbourgon/diskv/v3"

	"tableflip.dev/listings/pkg/event"
)

// Config supplies the on-disk location of the store.
type Config interface {
	BasePath() string
}

// Persistence defines the persistence contract for cart events.
type Persistence interface {
	List(ctx context.Context) []*event.Event
	Store(e *event.Event) error
	Delete(e *event.Event) error
	Watch(ctx context.Context) (<-chan Event, error)
}

var ErrNoID = errors.New("store: event id required")

// Load creates a Persistence backed by diskv rooted at cfg.BasePath().
func Load(cfg Config) (Persistence, error) {
	if cfg == nil {
		return nil, errors.New("store: config required")
	}
	basePath := cfg.BasePath()
	if basePath == "" {
		return nil, errors.New("store: base path unknown")
	}
	return &persistence{d: diskv.New(diskv.Options{
		BasePath:          basePath,
		AdvancedTransform: keyToPathTransform,
		InverseTransform:  pathToKeyTransform,
		CacheSizeMax:      1024 * 1024, // 1MB
	}), basePath: basePath}, nil
}

type persistence struct {
	d        *diskv.Diskv
	basePath string
}

func (p *persistence) read(key string) (*event.Event, error) {
	val, err := p.d.Read(key)
	if err != nil {
		return nil, err
	}
	e := &event.Event{}
	if err := json.Unmarshal(val, e); err != nil {
		return nil, err
	}
	if e.ID == "" {
		return nil, ErrNoID
	}
	return e, nil
}

func (p *persistence) List(ctx context.Context) []*event.Event {
	all := make([]*event.Event, 0)
	for key := range p.d.Keys(ctx.Done()) {
		e, err := p.read(key)
		if err != nil {
			fmt.Fprintf(os.Stderr, "store: %s: %s\n", key, err)
			continue
		}
		all = append(all, e)
	}
	sortEvents(all)
	return all
}

func (p *persistence) Store(e *event.Event) error {
	if e == nil || e.ID == "" {
		return ErrNoID
	}
	data, err := json.Marshal(e)
	if err != nil {
		return err
	}
	return p.d.Write(toKey(e), data)
}

func (p *persistence) Delete(e *event.Event) error {
	if e == nil || e.ID == "" {
		return ErrNoID
	}
	key := toKey(e)
	if !p.d.Has(key) {
		return nil
	}
	return p.d.Erase(key)
}

// sortEvents orders by date, then id, so listings are deterministic.
func sortEvents(events []*event.Event) {
	sort.SliceStable(events, func(i, j int) bool {
		left, right := events[i], events[j]
		if left.Date.Equal(right.Date) {
			return left.ID < right.ID
		}
		return left.Date.Before(right.Date)
	})
}

func keyToPathTransform(s string) *diskv.PathKey {
	parts := strings.Split(s, "-")
	return &diskv.PathKey{
		Path:     parts[:len(parts)-1],
		FileName: parts[len(parts)-1],
	}
}

func pathToKeyTransform(pathKey *diskv.PathKey) string {
	return fmt.Sprintf("%s-%s", strings.Join(pathKey.Path, "-"), pathKey.FileName)
}

// toKey makes `city-id`, both hex encoded so neither can contain the
// separator. Events without a city share the "_" bucket.
func toKey(e *event.Event) string {
	return fmt.Sprintf("%s-%s", toBucket(e.City), hex.EncodeToString([]byte(e.ID)))
}

func toBucket(city string) string {
	if city == "" {
		return "_"
	}
	return hex.EncodeToString([]byte(strings.ToLower(city)))
}

func fromBucket(s string) string {
	if s == "_" {
		return ""
	}
	city, err := hex.DecodeString(s)
	if err != nil {
		return ""
	}
	return string(city)
}
