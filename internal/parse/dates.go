package parse

import (
	"strings"
	"time"
)

// Source feeds mix full timestamps and bare dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// CoerceDate parses a raw value into a UTC calendar date. Strings try the
// known layouts; numbers are read as unix milliseconds. Unparseable or
// empty values yield nil, never an error; date quality is a record-level
// concern, not a batch-level one.
func CoerceDate(v any) *time.Time {
	switch val := v.(type) {
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return nil
		}
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, s); err == nil {
				d := utcDate(t)
				return &d
			}
		}
		return nil
	case float64:
		d := utcDate(time.UnixMilli(int64(val)))
		return &d
	case time.Time:
		d := utcDate(val)
		return &d
	default:
		return nil
	}
}

func utcDate(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
