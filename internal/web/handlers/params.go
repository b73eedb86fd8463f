package handlers

import (
	"strconv"
	"strings"
	"unicode"
)

// leadingInt parses the integer prefix of s the way browsers parse
// "1920px" or "1080.5": leading spaces and one sign are skipped, the run of
// digits that follows is the value. ok is false when there are no digits.
// Values that overflow saturate.
func leadingInt(s string) (n int, ok bool) {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	negative := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		negative = s[0] == '-'
		s = s[1:]
	}

	end := 0
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == 0 {
		return 0, false
	}

	n, err := strconv.Atoi(s[:end])
	if err != nil {
		n = int(^uint(0) >> 1)
	}
	if negative {
		n = -n
	}
	return n, true
}

// parseDimension turns a query value into a canvas side. Missing,
// non-numeric and non-positive values yield fallback; large values clamp.
func parseDimension(raw string, fallback, maxDim int) int {
	n, ok := leadingInt(raw)
	if !ok || n <= 0 {
		return fallback
	}
	if maxDim > 0 && n > maxDim {
		return maxDim
	}
	return n
}
