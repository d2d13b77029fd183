package services

import (
	"strings"
	"time"
)

const isoDate = "2006-01-02"

var announcedAtLayouts = []string{
	isoDate,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006/01/02",
	"January 2, 2006",
	"Jan 2, 2006",
	"2 January 2006",
}

// NormalizeDate maps the date shapes seen in extracted deals onto YYYY-MM-DD.
func NormalizeDate(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	for _, layout := range announcedAtLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.Format(isoDate), true
		}
	}
	return "", false
}

// dateMillis converts a stored YYYY-MM-DD to Unix milliseconds at UTC midnight.
func dateMillis(iso string) int64 {
	t, err := time.Parse(isoDate, iso)
	if err != nil {
		return 0
	}
	return t.UnixMilli()
}
