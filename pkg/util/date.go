package util

import "time"

// timeLayout is the layout used for human-readable timestamps in audit
// trails and report tables.
const timeLayout = "2006-01-02 15:04:05"

// FormatTime renders t in the fixed layout used across audit trails and reports.
func FormatTime(t time.Time) string {
	return t.Format(timeLayout)
}

// ParseTime parses a timestamp previously produced by FormatTime.
func ParseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
