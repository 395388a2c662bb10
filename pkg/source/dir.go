package source

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tableflip.dev/listings/pkg/event"
)

// Dir reads `<Path>/<city>.json`, each a JSON array of events.
type Dir struct {
	Path string
}

func (d *Dir) Fetch(ctx context.Context, city string) ([]*event.Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	city = strings.ToLower(strings.TrimSpace(city))
	if city == "" || strings.ContainsAny(city, `/\`) || strings.HasPrefix(city, ".") {
		return nil, fmt.Errorf("%w: %q", ErrUnknownCity, city)
	}
	data, err := os.ReadFile(filepath.Join(d.Path, city+".json"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCity, city)
		}
		return nil, fmt.Errorf("source: read catalog: %w", err)
	}
	var events []*event.Event
	if err := json.Unmarshal(data, &events); err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", city, err)
	}
	return stamp(city, events), nil
}
