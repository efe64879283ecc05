package integrations

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/yair/showfinder/pkg/domain"
)

// Images in this width band render well as cards. When none qualifies the
// widest variant is used instead.
const (
	MinPreferredImageWidth = 300
	MaxPreferredImageWidth = 800
)

type ticketmasterEventsResponse struct {
	Embedded struct {
		Events []ticketmasterEvent `json:"events"`
	} `json:"_embedded"`
	Page ticketmasterPage `json:"page"`
}

type ticketmasterPage struct {
	Size          int `json:"size"`
	TotalElements int `json:"totalElements"`
	TotalPages    int `json:"totalPages"`
	Number        int `json:"number"`
}

type ticketmasterEvent struct {
	ID          string                   `json:"id"`
	Name        string                   `json:"name"`
	URL         string                   `json:"url"`
	Images      []ticketmasterImage      `json:"images"`
	Dates       ticketmasterDates        `json:"dates"`
	PriceRanges []ticketmasterPriceRange `json:"priceRanges,omitempty"`
	Embedded    struct {
		Venues []ticketmasterVenue `json:"venues"`
	} `json:"_embedded"`
}

type ticketmasterImage struct {
	Ratio  string `json:"ratio"`
	URL    string `json:"url"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

type ticketmasterDates struct {
	Start    ticketmasterEventDate `json:"start"`
	Timezone string                `json:"timezone"`
}

type ticketmasterEventDate struct {
	LocalDate string `json:"localDate"`
	LocalTime string `json:"localTime"`
	DateTime  string `json:"dateTime"`
}

// Min and Max are pointers so an absent bound is distinguishable.
type ticketmasterPriceRange struct {
	Type     string   `json:"type"`
	Currency string   `json:"currency"`
	Min      *float64 `json:"min"`
	Max      *float64 `json:"max"`
}

type ticketmasterVenue struct {
	ID      string              `json:"id"`
	Name    string              `json:"name"`
	City    ticketmasterCity    `json:"city"`
	Country ticketmasterCountry `json:"country"`
}

type ticketmasterCity struct {
	Name string `json:"name"`
}

type ticketmasterCountry struct {
	Name        string `json:"name"`
	CountryCode string `json:"countryCode"`
}

// NormalizeEvents flattens a Discovery API events payload into summaries,
// keeping upstream order. Missing sections yield an empty page and a zero total.
func NormalizeEvents(raw []byte) (*domain.SearchResult, error) {
	var eventsResp ticketmasterEventsResponse
	if err := json.Unmarshal(raw, &eventsResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	events := make([]domain.EventSummary, 0, len(eventsResp.Embedded.Events))
	for _, tmEvent := range eventsResp.Embedded.Events {
		events = append(events, convertToSummary(tmEvent))
	}

	return &domain.SearchResult{
		Events:     events,
		Total:      eventsResp.Page.TotalElements,
		Page:       eventsResp.Page.Number,
		PageSize:   eventsResp.Page.Size,
		TotalPages: eventsResp.Page.TotalPages,
	}, nil
}

func convertToSummary(tmEvent ticketmasterEvent) domain.EventSummary {
	summary := domain.EventSummary{
		Name:          tmEvent.Name,
		StartDateTime: startDateTime(tmEvent.Dates.Start),
		PriceRange:    formatPriceRange(tmEvent.PriceRanges),
		ImageURL:      selectImage(tmEvent.Images),
		DetailURL:     tmEvent.URL,
	}

	if len(tmEvent.Embedded.Venues) > 0 {
		venue := tmEvent.Embedded.Venues[0]
		summary.VenueName = venue.Name
		summary.VenueCity = venue.City.Name
		summary.VenueCountry = venue.Country.CountryCode
	}

	return summary
}

// startDateTime prefers the absolute timestamp and falls back to
// "localDate localTime".
func startDateTime(start ticketmasterEventDate) string {
	if start.DateTime != "" {
		return start.DateTime
	}
	return strings.TrimSpace(start.LocalDate + " " + start.LocalTime)
}

// formatPriceRange renders the first range as "min~max currency". Both bounds
// must be present and non-zero.
func formatPriceRange(ranges []ticketmasterPriceRange) string {
	if len(ranges) == 0 {
		return ""
	}
	pr := ranges[0]
	if pr.Min == nil || pr.Max == nil || *pr.Min == 0 || *pr.Max == 0 {
		return ""
	}
	price := fmt.Sprintf("%s~%s %s", formatAmount(*pr.Min), formatAmount(*pr.Max), pr.Currency)
	return strings.TrimSpace(price)
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// selectImage picks the narrowest image inside the preferred width band,
// otherwise the widest one available.
func selectImage(images []ticketmasterImage) string {
	if len(images) == 0 {
		return ""
	}

	sorted := make([]ticketmasterImage, len(images))
	copy(sorted, images)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Width < sorted[j].Width
	})

	for _, img := range sorted {
		if img.Width >= MinPreferredImageWidth && img.Width <= MaxPreferredImageWidth {
			return img.URL
		}
	}
	return sorted[len(sorted)-1].URL
}
