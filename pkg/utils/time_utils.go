package utils

import "time"

func NowUnixSeconds() int64 { return time.Now().Unix() }

// FromUnixSeconds converts a stored epoch value in seconds to UTC.
// Returns zero time if t<=0 to let callers decide how to render.
func FromUnixSeconds(t int64) time.Time {
	if t <= 0 {
		return time.Time{}
	}
	return time.Unix(t, 0).UTC()
}

func FormatRFC3339(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

// FormatUnix renders a stored epoch value, or "" when unset.
func FormatUnix(t int64) string {
	return FormatRFC3339(FromUnixSeconds(t))
}

// FormatUnixPtr is FormatUnix for nullable columns.
func FormatUnixPtr(t *int64) string {
	if t == nil {
		return ""
	}
	return FormatUnix(*t)
}
