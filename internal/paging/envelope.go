// Package paging holds the wire-level paging contract of the remote API and
// the cursor extraction logic built on top of it.
package paging

import (
	"fmt"
	"net/url"
	"regexp"
	"strconv"

	"github.com/mrlokans/shoplist/internal/entities"
)

// InitialPageMultiplier is the page requested by a refresh instead of page 1,
// so a fresh list already has enough buffered pages behind it.
const InitialPageMultiplier = 3

var (
	// pageParam matches every page=<value> occurrence of a query string. The
	// key is matched case-insensitively.
	pageParam = regexp.MustCompile(`(?i)(?:^|[?&])page=([^&#]*)`)
	digits    = regexp.MustCompile(`^[0-9]+$`)
)

// Envelope is one decoded page of a remote listing.
type Envelope[T any] struct {
	Count    int     `json:"count"`
	Next     *string `json:"next"`
	Previous *string `json:"previous"`
	Results  []T     `json:"results"`
}

// HasNext reports whether the envelope links to a following page.
func (e Envelope[T]) HasNext() bool {
	return e.Next != nil && *e.Next != ""
}

// HasPrevious reports whether the envelope links to a preceding page.
func (e Envelope[T]) HasPrevious() bool {
	return e.Previous != nil && *e.Previous != ""
}

// ToCursor derives the persisted cursor for endpoint from the envelope links.
// It panics when neither link is present: a non-paged response has no cursor
// and callers must branch before asking for one.
func (e Envelope[T]) ToCursor(endpoint string) entities.RemoteKey {
	if !e.HasNext() && !e.HasPrevious() {
		panic(fmt.Sprintf("paging: envelope for %q has neither next nor previous link", endpoint))
	}

	key := entities.RemoteKey{
		Endpoint:   endpoint,
		TotalItems: e.Count,
	}
	if e.HasNext() {
		if page, ok := PageFromURL(*e.Next); ok {
			key.NextPage = &page
		}
	}
	if e.HasPrevious() {
		if page, ok := PageFromURL(*e.Previous); ok {
			key.PrevPage = &page
		}
	}
	return key
}

// NextPageForLoad returns the page to request for a fresh load. A refresh
// jumps ahead to multiplier; otherwise the next link is followed, falling back
// to page 1.
func (e Envelope[T]) NextPageForLoad(isRefresh bool, multiplier int) int {
	if isRefresh {
		return RefreshPage(multiplier)
	}
	if e.HasNext() {
		if page, ok := PageFromURL(*e.Next); ok {
			return page
		}
	}
	return 1
}

// RefreshPage is the page a refresh requests for the given multiplier.
// Non-positive multipliers fall back to InitialPageMultiplier.
func RefreshPage(multiplier int) int {
	if multiplier <= 0 {
		return InitialPageMultiplier
	}
	return multiplier
}

// PageFromURL scans every page parameter of raw and returns the highest
// numeric value, which is the last one in ascending page order. Pages start
// at 1; zero, signed, non-numeric and empty values are skipped.
func PageFromURL(raw string) (int, bool) {
	query := raw
	if u, err := url.Parse(raw); err == nil && u.RawQuery != "" {
		query = "?" + u.RawQuery
	}

	page, found := 0, false
	for _, m := range pageParam.FindAllStringSubmatch(query, -1) {
		if !digits.MatchString(m[1]) {
			continue
		}
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			continue
		}
		if !found || n > page {
			page, found = n, true
		}
	}
	return page, found
}
