package printers

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/shopspring/decimal"

	"tableflip.dev/listings/pkg/event"
)

func init() {
	color.NoColor = true
}

func sampleEvents() []*event.Event {
	return []*event.Event{
		{ID: "l-1", Title: "Jazz", City: "london", Venue: "Ronnie's", Date: time.Date(2026, time.March, 2, 19, 30, 0, 0, time.UTC), Price: decimal.RequireFromString("35")},
		{ID: "l-2", Title: "Market", City: "london", Date: time.Date(2026, time.March, 2, 9, 0, 0, 0, time.UTC)},
	}
}

func TestGroupsPrintsHeadingsAndRows(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf, ShowID: true}
	pp.Groups(event.GroupByDay(sampleEvents()))

	out := buf.String()
	for _, want := range []string{"Mon 02.03.2026 - 2 events", "l-1", "19:30", "Jazz", "35.00", "free"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestGroupsEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Groups(nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestCartPrintsTotal(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Cart(sampleEvents()...)

	out := buf.String()
	for _, want := range []string{"Cart - 2 events", "02.03.2026", "London", "Total", "35.00"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in output:\n%s", want, out)
		}
	}
}

func TestJSON(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	if err := pp.JSON(sampleEvents()[:1]); err != nil {
		t.Fatalf("json: %v", err)
	}
	if !strings.Contains(buf.String(), `"id": "l-1"`) {
		t.Fatalf("unexpected json %s", buf.String())
	}
}
