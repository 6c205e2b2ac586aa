package services

import (
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Default criteria values. A criteria field equal to its default is inactive
// and is omitted from the shareable query string.
const (
	SortByPrice  = "price"
	SortByRating = "rating"
	SortByDate   = "date"

	FilterAll       = "all"
	DefaultMaxPrice = 1000
)

// Criteria drives client-side narrowing of an already-fetched catalog list.
// All filters are conjunctive; inactive fields don't constrain the result.
type Criteria struct {
	SortBy   string
	Airline  string
	City     string
	Category string
	MaxPrice float64
	From     string
	To       string
	Date     string // calendar day, YYYY-MM-DD
}

func DefaultCriteria() Criteria {
	return Criteria{
		SortBy:   SortByPrice,
		Airline:  FilterAll,
		City:     FilterAll,
		Category: FilterAll,
		MaxPrice: DefaultMaxPrice,
	}
}

// ParseCriteria restores criteria from a request query string. Missing
// params fall back to defaults, so a bare URL means "show everything".
func ParseCriteria(values url.Values) Criteria {
	c := DefaultCriteria()
	if v := values.Get("sortBy"); v != "" {
		c.SortBy = v
	}
	if v := values.Get("airline"); v != "" {
		c.Airline = v
	}
	if v := values.Get("city"); v != "" {
		c.City = v
	}
	if v := values.Get("category"); v != "" {
		c.Category = v
	}
	if v := values.Get("maxPrice"); v != "" {
		if p, err := strconv.ParseFloat(v, 64); err == nil {
			c.MaxPrice = p
		}
	}
	if v := values.Get("from"); v != "" {
		c.From = v
	}
	if v := values.Get("to"); v != "" {
		c.To = v
	}
	if v := values.Get("date"); v != "" {
		c.Date = v
	}
	return c
}

// Query serializes the criteria for the address bar, omitting every param
// that equals its default. This is one-way state→URL: the handler echoes it,
// the client mirrors it, nothing re-fetches because of it.
func (c Criteria) Query() url.Values {
	params := url.Values{}
	if c.SortBy != "" {
		params.Set("sortBy", c.SortBy)
	}
	if c.Airline != "" && c.Airline != FilterAll {
		params.Set("airline", c.Airline)
	}
	if c.City != "" && c.City != FilterAll {
		params.Set("city", c.City)
	}
	if c.Category != "" && c.Category != FilterAll {
		params.Set("category", c.Category)
	}
	if c.MaxPrice != DefaultMaxPrice {
		params.Set("maxPrice", strconv.FormatFloat(c.MaxPrice, 'f', -1, 64))
	}
	if c.From != "" && c.From != FilterAll {
		params.Set("from", c.From)
	}
	if c.To != "" && c.To != FilterAll {
		params.Set("to", c.To)
	}
	if c.Date != "" {
		params.Set("date", c.Date)
	}
	return params
}

func (c Criteria) Encode() string {
	return c.Query().Encode()
}

// ─── Flights ─────────────────────────────────────────────────────────────────

func FilterFlights(flights []Flight, c Criteria) []Flight {
	out := make([]Flight, 0, len(flights))
	for _, f := range flights {
		if active(c.Airline) && f.Airline != c.Airline {
			continue
		}
		if f.Price > c.MaxPrice {
			continue
		}
		if active(c.From) && !containsFold(f.Origin, c.From) {
			continue
		}
		if active(c.To) && !containsFold(f.Destination, c.To) {
			continue
		}
		if c.Date != "" && !sameDay(f.DepartureDate, c.Date) {
			continue
		}
		out = append(out, f)
	}

	switch c.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	case SortByDate:
		sort.SliceStable(out, func(i, j int) bool {
			return parseWhen(out[i].DepartureDate).Before(parseWhen(out[j].DepartureDate))
		})
	}
	return out
}

// ─── Hotels ──────────────────────────────────────────────────────────────────

func FilterHotels(hotels []Hotel, c Criteria) []Hotel {
	out := make([]Hotel, 0, len(hotels))
	for _, h := range hotels {
		if active(c.City) && h.City != c.City {
			continue
		}
		if h.PricePerNight > c.MaxPrice {
			continue
		}
		out = append(out, h)
	}

	switch c.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].PricePerNight < out[j].PricePerNight })
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// ─── Activities ──────────────────────────────────────────────────────────────

func FilterActivities(activities []Activity, c Criteria) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if active(c.Category) && a.Category != c.Category {
			continue
		}
		if a.Price > c.MaxPrice {
			continue
		}
		if active(c.City) && a.Location != c.City {
			continue
		}
		out = append(out, a)
	}

	switch c.SortBy {
	case SortByPrice:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Price < out[j].Price })
	case SortByRating:
		sort.SliceStable(out, func(i, j int) bool { return out[i].Rating > out[j].Rating })
	}
	return out
}

// ─── Helpers ─────────────────────────────────────────────────────────────────

func active(filter string) bool {
	return filter != "" && filter != FilterAll
}

func containsFold(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}

// parseWhen accepts both full timestamps and bare calendar dates.
func parseWhen(s string) time.Time {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t
	}
	return time.Time{}
}

// sameDay compares by calendar day, ignoring time of day.
func sameDay(when, day string) bool {
	t := parseWhen(when)
	d := parseWhen(day)
	if t.IsZero() || d.IsZero() {
		return false
	}
	y1, m1, d1 := t.Date()
	y2, m2, d2 := d.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
