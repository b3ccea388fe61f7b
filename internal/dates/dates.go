// Package dates parses the date values accepted by date filters.
package dates

import (
	"fmt"
	"strings"
	"time"
)

const dayLayout = "2006-01-02"

// relativeDays maps the accepted keywords to a day offset from now.
var relativeDays = map[string]int{
	"yesterday": -1,
	"today":     0,
	"tomorrow":  1,
}

// localLayouts are datetimes without a zone; they are read in now's zone.
var localLayouts = []string{"2006-01-02T15:04", "2006-01-02T15:04:05"}

// NormalizeFilterDate turns a user-entered date into the value a date
// filter takes. Keywords and YYYY-MM-DD yield a calendar day; datetimes
// yield RFC3339.
func NormalizeFilterDate(arg string, now time.Time) (string, error) {
	value := strings.TrimSpace(arg)
	if offset, ok := relativeDays[strings.ToLower(value)]; ok {
		return now.AddDate(0, 0, offset).Format(dayLayout), nil
	}
	if len(value) == len(dayLayout) {
		if _, err := time.Parse(dayLayout, value); err == nil {
			return value, nil
		}
	}
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.Format(time.RFC3339), nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, now.Location()); err == nil {
			return t.Format(time.RFC3339), nil
		}
	}
	return "", fmt.Errorf("invalid date %q, use YYYY-MM-DD, an ISO 8601 datetime or today/yesterday/tomorrow", value)
}
