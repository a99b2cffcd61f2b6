// Package export renders an estimate grid and its validation results as CSV
// or XLSX for download.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"signquote/internal/domain"
	"signquote/internal/validator"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the CSV header row.
var columns = []string{
	"Row ID",
	"Kind",
	"Product Type",
	"Item 1",
	"Item 2",
	"Item 3",
	"Item 4",
	"Item 5",
	"Item 6",
	"Item 7",
	"Item 8",
	"Item 9",
	"Item 10",
	"Assembly Group",
	"Pricing Allowed",
	"Visible In Preview",
	"Incomplete Fields",
	"Letter Count",
	"Total Length (in)",
	"LED Count",
	"Wattage",
	"Power Supplies",
	"Errors",
}

var freeFormFields = []string{
	"item1", "item2", "item3", "item4", "item5",
	"item6", "item7", "item8", "item9", "item10",
}

// Writer wraps csv.Writer for exporting estimate grids as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteRows converts the grid to CSV rows and writes them, one per grid row.
// Validation columns are filled from rs when it carries an outcome for the
// row; grids exported before a validation run get blank validation columns.
func (w *Writer) WriteRows(rows []domain.Row, rs *validator.ResultSet) error {
	for i := range rows {
		record := rowToRecord(&rows[i], rs)
		if err := w.csv.Write(record); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

func rowToRecord(row *domain.Row, rs *validator.ResultSet) []string {
	record := make([]string, len(columns))

	record[0] = row.ID
	record[1] = string(row.Kind)
	if row.ProductTypeID != 0 {
		record[2] = strconv.Itoa(row.ProductTypeID)
	}
	for i, field := range freeFormFields {
		record[3+i] = row.Field(field)
	}
	record[13] = row.Field(validator.FieldAssemblyGroup)

	if rs == nil {
		return record
	}
	outcome, ok := rs.Outcome(row.ID)
	if !ok {
		return record
	}

	record[14] = formatBool(outcome.PricingAllowed)
	record[15] = formatBool(outcome.VisibleInPreview)
	record[16] = strings.Join(outcome.IncompleteFields, "; ")
	record[17] = formatDerived(outcome.Derived, validator.DerivedLetterCount)
	record[18] = formatDerived(outcome.Derived, validator.DerivedTotalLengthIn)
	record[19] = formatDerived(outcome.Derived, validator.DerivedLEDCount)
	record[20] = formatDerived(outcome.Derived, validator.DerivedWattage)
	record[21] = formatDerived(outcome.Derived, validator.DerivedPowerSupplies)
	record[22] = formatErrors(rs.ErrorsFor(row.ID))

	return record
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func formatDerived(derived map[string]float64, key string) string {
	v, ok := derived[key]
	if !ok {
		return ""
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func formatErrors(entries []validator.Entry) string {
	msgs := make([]string, 0, len(entries))
	for _, e := range entries {
		msgs = append(msgs, fmt.Sprintf("%s: %s", e.Key, e.Message))
	}
	return strings.Join(msgs, "; ")
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans an estimate title for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_title}_{YYYY-MM-DD}.{ext}
func BuildFilename(title, ext string) string {
	sanitized := SanitizeFilename(title)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, ext)
}
