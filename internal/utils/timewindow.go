package utils

import (
	"strings"
	"time"
)

// Time-window strings are free text like "2025-08-31T10:00/2025-08-31T12:00"
// or a single instant. They are parsed lazily for sorting only; an unparsable
// window is treated as "no constraint" rather than an error.

var windowLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseWindowStart returns the earliest instant of a time-window string and
// whether it could be parsed. For "start/end" intervals only the start is
// considered.
func ParseWindowStart(window string) (time.Time, bool) {
	s := strings.TrimSpace(window)
	if s == "" {
		return time.Time{}, false
	}
	if idx := strings.Index(s, "/"); idx >= 0 {
		s = strings.TrimSpace(s[:idx])
	}
	for _, layout := range windowLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// WindowStartMillis returns the earliest instant of a time window as Unix
// milliseconds, or maxInt64 when absent/unparsable so that unconstrained
// windows sort last.
func WindowStartMillis(window string) int64 {
	t, ok := ParseWindowStart(window)
	if !ok {
		return int64(^uint64(0) >> 1)
	}
	return t.UnixMilli()
}
