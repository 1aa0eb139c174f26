package domain

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// dateLayout matches the AERONET Date(dd:mm:yyyy) column, e.g. "26:04:2024".
const dateLayout = "02:01:2006"

// ReplaceSentinels rewrites every -999 missing-value code (numeric or textual
// form) to the empty cell, across all columns. This is the transform's single
// in-place mutation; every later stage produces new values. Returns the
// number of cells replaced.
func ReplaceSentinels(t *Table) int {
	replaced := 0
	for _, row := range t.Rows {
		for i, c := range row {
			if isSentinel(c) {
				row[i] = ""
				replaced++
			}
		}
	}
	return replaced
}

// isSentinel reports whether a cell holds the -999 missing-value code in any
// of its forms (-999, -999.0, "-999", ...).
func isSentinel(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" {
		return false
	}
	v, err := strconv.ParseFloat(s, 64)
	return err == nil && v == -999
}

// ParseNumber coerces a cell to float64. Empty or non-numeric cells become
// NaN, never an error.
func ParseNumber(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// ParseDate parses a dd:mm:yyyy cell. Unparseable cells become the zero
// time, never an error.
func ParseDate(s string) time.Time {
	t, err := time.Parse(dateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}
	}
	return t
}
