package dashboard

import (
	"fmt"
	"strconv"

	"github.com/mamadbah2/satisfaction/internal/domain/models"
)

// PageSize is the number of history rows per page.
const PageSize = 50

// PageCount returns the number of pages needed for total rows, never less than one.
func PageCount(total, size int) int {
	if size <= 0 || total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// Paginate returns page index of records, clamping index into range.
func Paginate(records []models.VoteRecord, index, size int) models.Page {
	count := PageCount(len(records), size)
	index = clamp(index, count)

	start := index * size
	end := start + size
	if start > len(records) {
		start = len(records)
	}
	if end > len(records) {
		end = len(records)
	}

	rows := make([]models.TableRow, 0, end-start)
	for _, record := range records[start:end] {
		rows = append(rows, Row(record))
	}

	return models.Page{
		Index:     index,
		Count:     count,
		Size:      size,
		Indicator: fmt.Sprintf("%d / %d", index+1, count),
		Rows:      rows,
	}
}

// Row renders record for the history table.
func Row(record models.VoteRecord) models.TableRow {
	row := models.TableRow{
		ID:      models.Placeholder,
		Mood:    models.Placeholder,
		Date:    orPlaceholder(record.Date),
		Time:    orPlaceholder(record.Time),
		Weekday: orPlaceholder(record.Weekday),
	}
	if record.HasID() {
		row.ID = strconv.FormatInt(record.ID, 10)
	}
	if record.Mood.Valid() {
		row.Mood = record.Mood.Display()
	}
	return row
}

func clamp(index, count int) int {
	if index < 0 {
		return 0
	}
	if index > count-1 {
		return count - 1
	}
	return index
}

func orPlaceholder(value string) string {
	if value == "" {
		return models.Placeholder
	}
	return value
}
