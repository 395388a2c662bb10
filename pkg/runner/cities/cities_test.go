package cities

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/listings/pkg/listing"
	"tableflip.dev/listings/pkg/printers"
)

func TestCitiesMarksCurrent(t *testing.T) {
	color.NoColor = true
	var buf bytes.Buffer
	c := Cities{
		Controller: listing.New(nil, nil, listing.WithCities("berlin", "london"), listing.WithCity("london")),
		Printer:    &printers.PrettyPrint{Out: &buf},
	}
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("cities: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "Cities") {
		t.Fatalf("missing title:\n%s", out)
	}
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "london") && !strings.HasPrefix(strings.TrimSpace(line), "*") {
			t.Fatalf("expected london marked current, got %q", line)
		}
		if strings.Contains(line, "berlin") && strings.HasPrefix(strings.TrimSpace(line), "*") {
			t.Fatalf("expected berlin unmarked, got %q", line)
		}
	}
}

func TestCitiesJSON(t *testing.T) {
	var buf bytes.Buffer
	c := Cities{
		Controller: listing.New(nil, nil, listing.WithCities("berlin", "london")),
		JSON:       true,
		Printer:    &printers.PrettyPrint{Out: &buf},
	}
	if err := c.Do(context.Background()); err != nil {
		t.Fatalf("cities: %v", err)
	}
	if !strings.Contains(buf.String(), `"berlin"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}
}
