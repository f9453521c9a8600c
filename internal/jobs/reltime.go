package jobs

import (
	"fmt"
	"strings"
	"time"
)

// recentlyLabel is used for unparseable timestamps and for the fallback
// search path, which does not report posting dates.
const recentlyLabel = "Recently"

var postedAtLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// FormatPostedAt converts an ISO-like timestamp into a human relative label:
// "1 day ago", "N days ago", "1 week ago", "N weeks ago" (floor days/7) or
// "N months ago" (floor days/30). Sub-day ages map to "Today", unparseable
// input to "Recently".
func FormatPostedAt(value string, now time.Time) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return recentlyLabel
	}

	var posted time.Time
	var err error
	for _, layout := range postedAtLayouts {
		posted, err = time.Parse(layout, value)
		if err == nil {
			break
		}
	}
	if err != nil {
		return recentlyLabel
	}

	days := int(now.Sub(posted).Hours() / 24)
	switch {
	case days < 1:
		return "Today"
	case days == 1:
		return "1 day ago"
	case days < 7:
		return fmt.Sprintf("%d days ago", days)
	case days < 14:
		return "1 week ago"
	case days < 30:
		return fmt.Sprintf("%d weeks ago", days/7)
	default:
		return fmt.Sprintf("%d months ago", days/30)
	}
}
