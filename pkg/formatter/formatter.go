package formatter

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// FormatNumber converts an integer to a string with commas as thousands separators.
// Example: 1234567 -> "1,234,567"
func FormatNumber(n int) string {
	s := strconv.Itoa(n)
	if n < 0 {
		s = s[1:]
	}

	le := len(s)
	if le <= 3 {
		if n < 0 {
			return "-" + s
		}
		return s
	}

	sepCount := (le - 1) / 3

	res := make([]byte, le+sepCount)

	j := len(res) - 1
	for i := le - 1; i >= 0; i-- {
		res[j] = s[i]
		j--
		if (le-i)%3 == 0 && i > 0 {
			res[j] = ','
			j--
		}
	}

	if n < 0 {
		return "-" + string(res)
	}
	return string(res)
}

// FormatCount abbreviates engagement counters the way the feed shows them.
// Example: 999 -> "999", 15420 -> "15.4K", 2500000 -> "2.5M"
func FormatCount(n int) string {
	switch {
	case n >= 1_000_000:
		return strconv.FormatFloat(float64(n)/1_000_000, 'f', 1, 64) + "M"
	case n >= 1_000:
		return strconv.FormatFloat(float64(n)/1_000, 'f', 1, 64) + "K"
	}
	return strconv.Itoa(n)
}

// EscapeMarkdownV2 escapes special characters in Markdown V2 format
func EscapeMarkdownV2(s string) string {
	var sb strings.Builder
	for _, r := range s {
		switch r {
		case '_', '*', '[', ']', '(', ')', '~', '`', '>', '#', '+', '-', '=', '|', '{', '}', '.', '!', '\\':
			sb.WriteRune('\\')
			sb.WriteRune(r)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

var agoUnits = map[string]time.Duration{
	"second": time.Second,
	"minute": time.Minute,
	"hour":   time.Hour,
	"day":    24 * time.Hour,
	"week":   7 * 24 * time.Hour,
	"month":  30 * 24 * time.Hour,
	"year":   365 * 24 * time.Hour,
}

// ParseAgo turns a display timestamp such as "2 hours ago" or "Just now" into
// the age it describes. Unrecognised phrasings report ok=false.
func ParseAgo(s string) (age time.Duration, ok bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "just now" || s == "now" {
		return 0, true
	}

	fields := strings.Fields(s)
	if len(fields) != 3 || fields[2] != "ago" {
		return 0, false
	}

	var n int
	if fields[0] == "a" || fields[0] == "an" {
		n = 1
	} else {
		v, err := strconv.Atoi(fields[0])
		if err != nil || v < 0 {
			return 0, false
		}
		n = v
	}

	unit, found := agoUnits[strings.TrimSuffix(fields[1], "s")]
	if !found {
		return 0, false
	}
	// Anything older than time.Duration can hold is reported as the maximum.
	if int64(n) > int64(math.MaxInt64/unit) {
		return time.Duration(math.MaxInt64), true
	}
	return time.Duration(n) * unit, true
}
