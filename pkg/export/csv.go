package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/yair/showfinder/pkg/domain"
)

// WriteCSV writes the events as a table in domain.ExportColumns order.
// The header row is written even when there are no events.
func WriteCSV(w io.Writer, events []domain.EventSummary) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(domain.ExportColumns); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, event := range events {
		if err := cw.Write(event.ExportRow()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

var unsafeFilenameChars = regexp.MustCompile(`[^\p{L}\p{N}_-]+`)

// Filename builds "events_{city}_{keyword}.{ext}" with characters that are
// unsafe in a Content-Disposition header replaced.
func Filename(city, keyword, ext string) string {
	clean := func(s string) string {
		return unsafeFilenameChars.ReplaceAllString(strings.TrimSpace(s), "-")
	}
	return fmt.Sprintf("events_%s_%s.%s", clean(city), clean(keyword), ext)
}
