// Package csvquote parses daily price CSV documents into closing-price series.
package csvquote

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"market_data/internal/feature/quotes/domain"
	"market_data/internal/feature/quotes/domain/entity"
)

// DateColumn is the header name of the date column in every supported provider.
const DateColumn = "Date"

// Parse reads a CSV document whose header contains DateColumn and closeColumn
// and returns the (date, close) pairs as an ascending series.
//
// Header matching ignores case and surrounding whitespace. Blank, short or
// unparsable rows are skipped. Duplicate dates keep the last row.
func Parse(r io.Reader, closeColumn string) (entity.Series, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.LazyQuotes = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("empty document: %w", domain.ErrMalformedResponse)
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	dateIdx := columnIndex(header, DateColumn)
	closeIdx := columnIndex(header, closeColumn)
	if dateIdx < 0 || closeIdx < 0 {
		return nil, fmt.Errorf("header %q lacks %q or %q: %w",
			strings.Join(header, ","), DateColumn, closeColumn, domain.ErrMalformedResponse)
	}
	need := max(dateIdx, closeIdx) + 1

	var points []entity.Point
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(rec) < need {
			continue
		}

		date := strings.TrimSpace(rec[dateIdx])
		if _, err := time.Parse(entity.DateLayout, date); err != nil {
			continue
		}
		c, err := strconv.ParseFloat(strings.TrimSpace(rec[closeIdx]), 64)
		if err != nil {
			continue
		}
		points = append(points, entity.Point{Date: date, Close: c})
	}
	return entity.Normalize(points), nil
}

func columnIndex(header []string, name string) int {
	for i, h := range header {
		// Some providers prefix the header with a BOM
		h = strings.TrimPrefix(h, "\ufeff")
		if strings.EqualFold(strings.TrimSpace(h), name) {
			return i
		}
	}
	return -1
}
