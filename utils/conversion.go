// File: utils/conversion.go
package utils

import (
	"time"
)

// AsTime coerces the timestamp shapes the document store can hand
// back (native time, RFC 3339 string, or millisecond epoch) into a
// time.Time.
func AsTime(v any) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t, true
	case string:
		if parsed, err := time.Parse(time.RFC3339, t); err == nil {
			return parsed, true
		}
	case int64:
		return time.UnixMilli(t), true
	case float64:
		return time.UnixMilli(int64(t)), true
	}
	return time.Time{}, false
}

// NormalizeTimestamp renders any store timestamp shape as a canonical
// RFC 3339 UTC string. Unrecognized values come back empty.
func NormalizeTimestamp(v any) string {
	t, ok := AsTime(v)
	if !ok {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
