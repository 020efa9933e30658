// Package entity defines the domain models for the quotes feature.
package entity

import "sort"

// DateLayout is the ISO calendar date format used for every stored and served date.
// Dates in this layout sort lexically in chronological order.
const DateLayout = "2006-01-02"

// Point is a single closing price for one calendar date.
type Point struct {
	Date  string  // Calendar date in DateLayout (e.g., "2020-01-02")
	Close float64 // Closing price
}

// Series is a date-ordered sequence of points for one symbol.
// Dates are strictly increasing; there are no duplicates.
type Series []Point

// Quote is one persisted (symbol, date, close) fact.
type Quote struct {
	Symbol string
	Date   string
	Close  float64
}

// Normalize sorts points ascending by date and collapses duplicate dates,
// keeping the last occurrence of each date in input order.
func Normalize(points []Point) Series {
	if len(points) == 0 {
		return Series{}
	}
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	out := make(Series, 0, len(sorted))
	for _, p := range sorted {
		if n := len(out); n > 0 && out[n-1].Date == p.Date {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

// Positive returns the points whose close is strictly greater than zero.
func (s Series) Positive() Series {
	out := make(Series, 0, len(s))
	for _, p := range s {
		if p.Close > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Quotes attaches symbol to every point of s.
func (s Series) Quotes(symbol string) []Quote {
	out := make([]Quote, 0, len(s))
	for _, p := range s {
		out = append(out, Quote{Symbol: symbol, Date: p.Date, Close: p.Close})
	}
	return out
}
