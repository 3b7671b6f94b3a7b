package grid

import (
	"strconv"
	"strings"
	"time"
)

// Date layouts accepted on input, tried in order. Databases hand back
// date-only strings, RFC3339, or a space-separated timestamp depending on
// the driver; the time part is always discarded.
var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
}

// Coerce converts a raw string into a Value of the given kind. Coercion
// never fails: unparsable numbers degrade to 0, unparsable dates to null.
// This is the deliberate default-substitution policy of the loader, not
// error suppression.
func Coerce(raw string, k Kind) Value {
	switch k {
	case KindInt:
		i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
		if err != nil {
			// Non-integer numerics ("2.0") still count as numbers.
			if f, ferr := strconv.ParseFloat(strings.TrimSpace(raw), 64); ferr == nil {
				return Int(int64(f))
			}
			return Int(0)
		}
		return Int(i)
	case KindFloat:
		f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return Float(0)
		}
		return Float(f)
	case KindDate:
		return CoerceDate(raw)
	default:
		return Text(raw)
	}
}

// CoerceDate parses a date in any accepted layout, truncating any time
// part to midnight UTC. Empty or unparsable input yields a null date.
func CoerceDate(raw string) Value {
	s := strings.TrimSpace(raw)
	if s == "" {
		return Null(KindDate)
	}
	for _, layout := range dateLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		return Date(time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC))
	}
	return Null(KindDate)
}
