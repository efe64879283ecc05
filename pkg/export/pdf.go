package export

import (
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"

	"github.com/yair/showfinder/pkg/domain"
)

// column widths in mm on A4 landscape, matching domain.ExportColumns
var pdfColumnWidths = []float64{70, 42, 50, 30, 18, 67}

// WritePDF renders the events table as a landscape A4 document.
// The core fonts only cover Latin-1, so other characters are replaced.
func WritePDF(w io.Writer, title string, events []domain.EventSummary) error {
	pdf := gofpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 14)
	pdf.CellFormat(0, 10, tr(title), "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	pdf.CellFormat(0, 6, fmt.Sprintf("%d events", len(events)), "", 1, "L", false, 0, "")
	pdf.Ln(2)

	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(238, 246, 255)
	for i, col := range domain.ExportColumns {
		pdf.CellFormat(pdfColumnWidths[i], 7, col, "1", 0, "L", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 8)
	for _, event := range events {
		for i, value := range event.ExportRow() {
			pdf.CellFormat(pdfColumnWidths[i], 6, fit(pdf, tr(value), pdfColumnWidths[i]), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// fit shortens s with an ellipsis until it fits a cell of the given width.
// s is already translated to a single-byte code page, so it is cut by bytes.
func fit(pdf *gofpdf.Fpdf, s string, width float64) string {
	const padding = 2
	if pdf.GetStringWidth(s) <= width-padding {
		return s
	}
	for len(s) > 0 && pdf.GetStringWidth(s+"...") > width-padding {
		s = s[:len(s)-1]
	}
	return s + "..."
}
