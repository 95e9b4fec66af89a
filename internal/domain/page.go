package domain

import (
	"math"
	"strconv"
	"strings"
)

// Paging bounds for entry listings.
const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

// Page selects a window of a newest-first listing.
type Page struct {
	Limit  int
	Offset int
}

// NewPage builds a Page from raw query values. Missing, zero or non-numeric
// limits fall back to the default; non-numeric offsets fall back to zero.
func NewPage(limit, offset string) Page {
	l, ok := parseNumber(limit)
	if !ok || l == 0 {
		l = DefaultPageLimit
	}
	o, ok := parseNumber(offset)
	if !ok {
		o = 0
	}
	return clampPage(l, o)
}

// Clamp forces the page into the allowed bounds.
func (p Page) Clamp() Page {
	l := float64(p.Limit)
	if p.Limit == 0 {
		l = DefaultPageLimit
	}
	return clampPage(l, float64(p.Offset))
}

func clampPage(limit, offset float64) Page {
	limit = math.Max(1, math.Min(MaxPageLimit, math.Trunc(limit)))
	offset = math.Max(0, math.Min(math.MaxInt32, math.Trunc(offset)))
	return Page{Limit: int(limit), Offset: int(offset)}
}

func parseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) {
		return 0, false
	}
	return n, true
}
