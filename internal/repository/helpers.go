package repository

import (
	"encoding/json"
	"time"
)

// dateKey formats a calendar day the way work_date is stored.
func dateKey(t time.Time) string {
	return t.Format(dateLayout)
}

// parseDateKey parses a stored work_date back to midnight UTC.
func parseDateKey(s string) (time.Time, error) {
	return time.Parse(dateLayout, s)
}

// nanosToTime converts a stored updated_at back to a UTC time.
func nanosToTime(n int64) time.Time {
	return time.Unix(0, n).UTC()
}

// encodeStrings serializes a string list for a TEXT column. A nil slice is
// stored as an empty JSON array.
func encodeStrings(v []string) string {
	if v == nil {
		v = []string{}
	}
	b, _ := json.Marshal(v)
	return string(b)
}

// decodeStrings parses a TEXT column written by encodeStrings. Malformed
// values decode to nil.
func decodeStrings(s string) []string {
	var out []string
	if err := json.Unmarshal([]byte(s), &out); err != nil {
		return nil
	}
	return out
}

// nowUTC returns the current UTC time formatted as RFC3339.
func nowUTC() string {
	return time.Now().UTC().Format(time.RFC3339)
}

const dateLayout = "2006-01-02"
