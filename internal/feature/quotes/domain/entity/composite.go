package entity

import (
	"fmt"
	"strings"
)

// CompositeSeparator joins the constituent symbols of a composite symbol.
const CompositeSeparator = ":"

// CompositeSymbol is an ordered list of raw symbols whose series are combined
// by multiplying closes on matching dates (e.g., "GOLD:EURUSD").
type CompositeSymbol struct {
	Raw   string   // Original expression as requested
	Parts []string // Constituent raw symbols, in order
}

// ParseComposite splits a composite expression into its constituent symbols.
// It returns an error when the expression or any part is empty.
func ParseComposite(expr string) (CompositeSymbol, error) {
	if strings.TrimSpace(expr) == "" {
		return CompositeSymbol{}, fmt.Errorf("empty symbol")
	}
	parts := strings.Split(expr, CompositeSeparator)
	for i, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			return CompositeSymbol{}, fmt.Errorf("empty part in %q", expr)
		}
		parts[i] = p
	}
	return CompositeSymbol{Raw: expr, Parts: parts}, nil
}

// Constituents returns the raw symbols of all composites, deduplicated and
// in first-seen order.
func Constituents(composites []CompositeSymbol) []string {
	seen := make(map[string]struct{})
	out := make([]string, 0, len(composites))
	for _, c := range composites {
		for _, p := range c.Parts {
			if _, ok := seen[p]; ok {
				continue
			}
			seen[p] = struct{}{}
			out = append(out, p)
		}
	}
	return out
}
