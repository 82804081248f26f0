package formatter

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFormatNumber(t *testing.T) {
	cases := map[int]string{
		0:        "0",
		999:      "999",
		1000:     "1,000",
		15420:    "15,420",
		1234567:  "1,234,567",
		-1234567: "-1,234,567",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatNumber(in), "FormatNumber(%d)", in)
	}
}

func TestFormatCount(t *testing.T) {
	cases := map[int]string{
		234:     "234",
		1000:    "1.0K",
		15420:   "15.4K",
		2500000: "2.5M",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatCount(in), "FormatCount(%d)", in)
	}
}

func TestEscapeMarkdownV2(t *testing.T) {
	assert.Equal(t, `sarah\_chen`, EscapeMarkdownV2("sarah_chen"))
	assert.Equal(t, `\#travel \(1\.5K\)\!`, EscapeMarkdownV2("#travel (1.5K)!"))
}

func TestParseAgo(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"Just now", 0, true},
		{"45 minutes ago", 45 * time.Minute, true},
		{"1 hour ago", time.Hour, true},
		{"2 hours ago", 2 * time.Hour, true},
		{"3 days ago", 72 * time.Hour, true},
		{"1 week ago", 7 * 24 * time.Hour, true},
		{"an hour ago", time.Hour, true},
		{"999999999 years ago", time.Duration(math.MaxInt64), true},
		{"9223372036854775807 seconds ago", time.Duration(math.MaxInt64), true},
		{"yesterday", 0, false},
		{"2 fortnights ago", 0, false},
		{"", 0, false},
	}
	for _, tc := range cases {
		got, ok := ParseAgo(tc.in)
		assert.Equal(t, tc.ok, ok, tc.in)
		assert.Equal(t, tc.want, got, tc.in)
	}
}

func TestParseAgoHugeAgesSortOldest(t *testing.T) {
	huge, ok := ParseAgo("999999999 years ago")
	assert.True(t, ok)
	week, _ := ParseAgo("1 week ago")
	assert.Greater(t, huge, week)
}
