package directory

import (
	"io"
	"strconv"
	"strings"
)

// Export file metadata.
const (
	CSVFilename = "doctors_report.csv"
	CSVMimeType = "text/csv"
)

var csvHeader = []string{"Name", "Specialty", "City", "Rating", "Reviews", "Available", "Suspended"}

// CSV serializes doctors in the fixed export column order. Text fields are
// always quoted, rows are joined with "\n" and there is no trailing newline.
func CSV(doctors []Doctor) string {
	rows := make([]string, 0, len(doctors)+1)
	rows = append(rows, strings.Join(csvHeader, ","))
	for _, d := range doctors {
		rows = append(rows, csvRow(d))
	}
	return strings.Join(rows, "\n")
}

// WriteCSV writes CSV(doctors) to w.
func WriteCSV(w io.Writer, doctors []Doctor) error {
	_, err := io.WriteString(w, CSV(doctors))
	return err
}

func csvRow(d Doctor) string {
	rating := NotAvailable
	if d.RatingKnown {
		rating = strconv.FormatFloat(d.Rating, 'f', 1, 64)
	}
	reviews := NotAvailable
	if d.ReviewCountKnown {
		reviews = strconv.Itoa(d.ReviewCount)
	}
	return strings.Join([]string{
		quote(d.Name),
		quote(d.Specialty),
		quote(d.City),
		rating,
		reviews,
		yesNo(d.IsAvailable),
		yesNo(d.Suspended),
	}, ",")
}

func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}
