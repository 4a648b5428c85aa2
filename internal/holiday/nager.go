package holiday

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// NagerSource fetches public holidays from a Nager.Date compatible API:
// GET {baseURL}/PublicHolidays/{year}/{country}.
type NagerSource struct {
	baseURL string
	country string
	client  *http.Client
}

// NewNagerSource creates a NagerSource. A nil client uses a 10s timeout.
func NewNagerSource(baseURL, country string, client *http.Client) *NagerSource {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &NagerSource{
		baseURL: strings.TrimRight(baseURL, "/"),
		country: country,
		client:  client,
	}
}

// Country returns the ISO country code queried.
func (s *NagerSource) Country() string { return s.country }

type nagerHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

func (s *NagerSource) HolidaysFor(ctx context.Context, year int) (Set, error) {
	url := fmt.Sprintf("%s/PublicHolidays/%d/%s", s.baseURL, year, s.country)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build holiday request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch holidays: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return Set{}, nil
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch holidays: bad status code %d", resp.StatusCode)
	}

	var items []nagerHoliday
	if err := json.NewDecoder(resp.Body).Decode(&items); err != nil {
		return nil, fmt.Errorf("decode holidays: %w", err)
	}

	set := make(Set, len(items))
	for _, it := range items {
		if _, err := time.Parse(DateLayout, it.Date); err != nil {
			continue
		}
		name := it.Name
		if name == "" {
			name = it.LocalName
		}
		set[it.Date] = name
	}
	return set, nil
}
