package domain

import (
	"time"
)

// EventSummary is one normalized row of a Ticketmaster search.
type EventSummary struct {
	Name          string `json:"name"`
	StartDateTime string `json:"start_datetime"`
	VenueName     string `json:"venue_name,omitempty"`
	VenueCity     string `json:"venue_city,omitempty"`
	VenueCountry  string `json:"venue_country,omitempty"`
	PriceRange    string `json:"price_range,omitempty"`
	ImageURL      string `json:"image_url,omitempty"`
	DetailURL     string `json:"detail_url,omitempty"`
}

// ExportColumns is the fixed column order used by table exports.
var ExportColumns = []string{"event", "datetime", "venue", "city", "country", "link"}

// ExportRow returns the event in ExportColumns order.
func (e EventSummary) ExportRow() []string {
	return []string{e.Name, e.StartDateTime, e.VenueName, e.VenueCity, e.VenueCountry, e.DetailURL}
}

type SearchResult struct {
	Events     []EventSummary `json:"events"`
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
	TotalPages int            `json:"total_pages"`
}

// Empty reports whether the page carried no events. Total may still be non-zero.
func (r *SearchResult) Empty() bool {
	return r == nil || len(r.Events) == 0
}

// SearchRecord is an audit entry for one search. Results are never stored.
type SearchRecord struct {
	ID          string    `json:"id"`
	City        string    `json:"city,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	FromDate    time.Time `json:"from_date"`
	ToDate      time.Time `json:"to_date"`
	PageSize    int       `json:"page_size"`
	Page        int       `json:"page"`
	Outcome     ErrorKind `json:"outcome"`
	Total       int       `json:"total"`
	Returned    int       `json:"returned"`
	CreatedAt   time.Time `json:"created_at"`
}
