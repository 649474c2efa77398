// Package export serializes vote records to the CSV and TXT download formats
// and to spreadsheet rows.
//
// CSV rows follow RFC 4180 with ';' as the delimiter. Values written by the
// kiosk split back on ';' unchanged; a value holding ';', a quote, a line
// break or leading whitespace is quoted so spreadsheet programs still read
// it as one cell.
package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
)

const (
	CSVFilename = "satisfaction_export.csv"
	TXTFilename = "satisfaction_export.txt"

	CSVContentType = "text/csv; charset=utf-8"
	TXTContentType = "text/plain; charset=utf-8"

	// separatorHint tells spreadsheet programs which delimiter the file uses.
	separatorHint = "sep=;"
)

// Header lists the exported columns in order.
var Header = []string{"ID", "Mood", "Date", "Time", "Weekday"}

// Fields returns the exported values of record. Missing values are empty.
func Fields(record models.VoteRecord) []string {
	id := ""
	if record.HasID() {
		id = strconv.FormatInt(record.ID, 10)
	}
	return []string{id, string(record.Mood), record.Date, record.Time, record.Weekday}
}

// WriteCSV writes the separator hint, the header and one row per record.
func WriteCSV(w io.Writer, records []models.VoteRecord) error {
	if _, err := io.WriteString(w, separatorHint+"\n"); err != nil {
		return fmt.Errorf("write separator hint: %w", err)
	}

	cw := csv.NewWriter(w)
	cw.Comma = ';'
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, record := range records {
		if err := cw.Write(Fields(record)); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}

// ToCSV returns the CSV export of records.
func ToCSV(records []models.VoteRecord) ([]byte, error) {
	var buf bytes.Buffer
	if err := WriteCSV(&buf, records); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTXT writes one "Key: value" line per record.
func WriteTXT(w io.Writer, records []models.VoteRecord) error {
	for _, record := range records {
		if _, err := io.WriteString(w, Line(record)+"\n"); err != nil {
			return fmt.Errorf("write txt line: %w", err)
		}
	}
	return nil
}

// ToTXT returns the TXT export of records.
func ToTXT(records []models.VoteRecord) string {
	var sb strings.Builder
	_ = WriteTXT(&sb, records)
	return sb.String()
}

// Line formats one record for the TXT export.
func Line(record models.VoteRecord) string {
	fields := Fields(record)
	parts := make([]string, len(Header))
	for i, name := range Header {
		parts[i] = name + ": " + fields[i]
	}
	return strings.Join(parts, "; ")
}

// SheetRows returns the header followed by one row per record.
func SheetRows(records []models.VoteRecord) [][]interface{} {
	rows := make([][]interface{}, 0, len(records)+1)
	rows = append(rows, toRow(Header))
	for _, record := range records {
		rows = append(rows, toRow(Fields(record)))
	}
	return rows
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}

// SheetWriter is the subset of the spreadsheet repository used for exports.
type SheetWriter interface {
	ClearRange(ctx context.Context, sheetRange string) error
	AppendRows(ctx context.Context, sheetRange string, rows [][]interface{}) error
}

// ToSheet replaces the content of sheetRange with records.
func ToSheet(ctx context.Context, sheet SheetWriter, sheetRange string, records []models.VoteRecord) error {
	if err := sheet.ClearRange(ctx, sheetRange); err != nil {
		return fmt.Errorf("clear export sheet: %w", err)
	}
	if err := sheet.AppendRows(ctx, sheetRange, SheetRows(records)); err != nil {
		return fmt.Errorf("write export sheet: %w", err)
	}
	return nil
}
