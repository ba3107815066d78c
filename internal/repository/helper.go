package repository

import (
	"fmt"
	"strings"
	"time"
)

// ParseTime parses a timestamp string in "2006-01-02 15:04:05",
// "2006-01-02", or RFC3339 format. SQLite's CURRENT_TIMESTAMP produces the
// first form.
func ParseTime(str string) (time.Time, error) {
	for _, layout := range []string{"2006-01-02 15:04:05", "2006-01-02", time.RFC3339} {
		if parsed, err := time.Parse(layout, str); err == nil {
			return parsed.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("failed to parse timestamp %q", str)
}

// isUniqueViolation reports whether err is a sqlite UNIQUE constraint
// failure. The modernc driver exposes this only through the message text.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
