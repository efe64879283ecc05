package domain

import (
	"fmt"
	"strings"
	"time"
)

const DefaultPageSize = 20

// PageSizes are the page sizes the search form offers.
var PageSizes = []int{10, 20, 30, 50, 100}

type SearchFilters struct {
	City        string    `json:"city,omitempty"`
	Keyword     string    `json:"keyword,omitempty"`
	CountryCode string    `json:"country_code,omitempty"`
	FromDate    time.Time `json:"from_date"`
	ToDate      time.Time `json:"to_date"`
	PageSize    int       `json:"page_size"`
	Page        int       `json:"page"`
}

// Normalize trims free-text fields, upper-cases the country code and
// fills in the default page size.
func (f SearchFilters) Normalize() SearchFilters {
	f.City = strings.TrimSpace(f.City)
	f.Keyword = strings.TrimSpace(f.Keyword)
	f.CountryCode = strings.ToUpper(strings.TrimSpace(f.CountryCode))
	if f.PageSize == 0 {
		f.PageSize = DefaultPageSize
	}
	return f
}

func (f SearchFilters) Validate() error {
	if !ValidPageSize(f.PageSize) {
		return ValidationError{Field: "size", Message: fmt.Sprintf("must be one of %v", PageSizes)}
	}
	if f.Page < 0 {
		return ValidationError{Field: "page", Message: "must not be negative"}
	}
	if f.FromDate.IsZero() || f.ToDate.IsZero() {
		return ValidationError{Field: "from", Message: "date range is required"}
	}
	if f.FromDate.After(f.ToDate) {
		return ValidationError{Field: "to", Message: "must not be before from"}
	}
	return nil
}

func ValidPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}
