// Package printers renders events and the cart for the command line.
package printers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"tableflip.dev/listings/pkg/event"
)

type PrettyPrint struct {
	ShowID bool
	Out    io.Writer
}

// Writer is where output goes, color.Output unless Out is set.
func (pp *PrettyPrint) Writer() io.Writer {
	if pp.Out == nil {
		return color.Output
	}
	return pp.Out
}

func (pp *PrettyPrint) NewLine() {
	_, _ = fmt.Fprintln(pp.Writer(), "")
}

func (pp *PrettyPrint) Title(title string) {
	t := color.New(color.Bold, color.Underline)
	_, _ = t.Fprintln(pp.Writer(), title)
}

func (pp *PrettyPrint) TitleWithCount(title string, count int) {
	t := color.New(color.Bold, color.Underline)
	c := color.New(color.Faint)

	_, _ = t.Fprint(pp.Writer(), title)
	_, _ = c.Fprintf(pp.Writer(), " - %d", count)

	switch count {
	case 1:
		_, _ = c.Fprintln(pp.Writer(), " event")
	default:
		_, _ = c.Fprintln(pp.Writer(), " events")
	}
}

// Groups prints each day as a heading followed by its events.
func (pp *PrettyPrint) Groups(groups []event.Group) {
	if len(groups) == 0 {
		pp.none()
		return
	}
	for _, g := range groups {
		pp.TitleWithCount(g.Day.Format(event.HeadingLayout), len(g.Events))
		pp.Events(g.Events...)
	}
}

// Events prints a table of events.
func (pp *PrettyPrint) Events(events ...*event.Event) {
	if len(events) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	f := color.New(color.Faint)

	tbl := uitable.New()
	tbl.Separator = "  "
	cols := 0
	for _, e := range events {
		row := make([]interface{}, 0, 5)
		if pp.ShowID {
			row = append(row, y.Sprint(e.ID))
		}
		row = append(row, e.Date.Format(event.TimeLayout), e.Title, f.Sprint(e.Venue), price(e))
		tbl.AddRow(row...)
		cols = len(row)
	}
	tbl.RightAlign(cols - 1)
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
}

// Cart prints cart events with their date and the total price.
func (pp *PrettyPrint) Cart(events ...*event.Event) {
	pp.TitleWithCount("Cart", len(events))
	if len(events) == 0 {
		pp.none()
		return
	}
	y := color.New(color.FgHiYellow, color.Italic, color.Faint)
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	for _, e := range events {
		row := make([]interface{}, 0, 5)
		if pp.ShowID {
			row = append(row, y.Sprint(e.ID))
		}
		row = append(row, event.FormatDisplayDate(e.Date), CityName(e.City), e.Title, price(e))
		tbl.AddRow(row...)
	}
	total := make([]interface{}, 0, 5)
	if pp.ShowID {
		total = append(total, "")
	}
	total = append(total, "", "", bold.Sprint("Total"), bold.Sprint(event.Total(events).StringFixed(2)))
	tbl.AddRow(total...)
	tbl.RightAlign(len(total) - 1)
	_, _ = fmt.Fprintln(pp.Writer(), tbl)
	pp.NewLine()
}

// JSON writes v as indented JSON.
func (pp *PrettyPrint) JSON(v interface{}) error {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(pp.Writer(), string(b))
	return err
}

func (pp *PrettyPrint) none() {
	f := color.New(color.Faint, color.Italic)
	_, _ = f.Fprint(pp.Writer(), " none\n\n")
}

// CityName upper-cases the first letter of a city id.
func CityName(city string) string {
	if city == "" {
		return ""
	}
	return strings.ToUpper(city[:1]) + city[1:]
}

func price(e *event.Event) string {
	if e.Price.IsZero() {
		return "free"
	}
	return e.Price.StringFixed(2)
}
