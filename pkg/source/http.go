package source

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"tableflip.dev/listings/pkg/event"
)

// HTTP fetches `GET <BaseURL>/events?city=<city>` returning a JSON array of
// events.
type HTTP struct {
	BaseURL string
	Client  *http.Client
}

func (h *HTTP) Fetch(ctx context.Context, city string) ([]*event.Event, error) {
	endpoint := strings.TrimRight(h.BaseURL, "/") + "/events?city=" + url.QueryEscape(city)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("source: build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("source: fetch %s: %w", city, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCity, city)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("source: fetch %s: %s: %s", city, resp.Status, strings.TrimSpace(string(body)))
	}

	var events []*event.Event
	if err := json.NewDecoder(resp.Body).Decode(&events); err != nil {
		return nil, fmt.Errorf("source: decode %s: %w", city, err)
	}
	return stamp(strings.ToLower(city), events), nil
}
