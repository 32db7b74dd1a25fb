// Package cache provides the tiered annotation-result cache (spec.md §4.4):
// an in-memory LRU+TTL tier, a persistent JSON-envelope file tier, and an
// optional DuckDB-backed persistent tier for queryable result storage.
package cache

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidSize is returned when a size configuration string doesn't match
// the accepted grammar: a number (`\d+(\.\d+)?`) followed by an optional,
// case-insensitive unit (B, KB, MB, GB). Surrounding whitespace and spaces
// between the number and the unit are accepted, and a bare number is read
// as bytes.
var ErrInvalidSize = errors.New("invalid cache size")

var sizePattern = regexp.MustCompile(`(?i)^(\d+(?:\.\d+)?)\s*(B|KB|MB|GB)?$`)

// ParseSize parses a human-readable size string such as "500MB" or "2GB"
// into a byte count. A bare number is interpreted as bytes.
func ParseSize(s string) (int64, error) {
	s = strings.TrimSpace(s)
	m := sizePattern.FindStringSubmatch(s)
	if m == nil {
		return 0, fmt.Errorf("%w: %q: expected a number optionally followed by B/KB/MB/GB", ErrInvalidSize, s)
	}

	value, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidSize, s, err)
	}

	unit := strings.ToUpper(m[2])
	var multiplier float64
	switch unit {
	case "", "B":
		multiplier = 1
	case "KB":
		multiplier = 1 << 10
	case "MB":
		multiplier = 1 << 20
	case "GB":
		multiplier = 1 << 30
	default:
		return 0, fmt.Errorf("invalid size unit %q", unit)
	}

	return int64(value * multiplier), nil
}
