package revenue

import (
	"fmt"
	"strings"
	"time"

	"github.com/davidepagano/storeops-backend/internal/orderitems"
	pkgerrors "github.com/davidepagano/storeops-backend/pkg/errors"
)

// timestampLayouts are tried in order against modifiedDate. The POS clock
// writes ISO-8601 but is not consistent about fractional seconds or zone.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05.999",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

// ResolveTargetDate picks the calendar day to aggregate. An explicit input
// must be YYYY-MM-DD; absent input defaults to yesterday in loc, since the
// job summarizes the prior, presumably-closed business day.
func ResolveTargetDate(input *string, now func() time.Time, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}

	if input != nil && strings.TrimSpace(*input) != "" {
		raw := strings.TrimSpace(*input)
		parsed, err := time.ParseInLocation(DateLayout, raw, loc)
		if err != nil {
			return time.Time{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err,
				fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", raw))
		}
		return parsed, nil
	}

	yesterday := now().In(loc).AddDate(0, 0, -1)
	return time.Date(yesterday.Year(), yesterday.Month(), yesterday.Day(), 0, 0, 0, 0, loc), nil
}

// DayBounds returns the inclusive window for a calendar day in loc:
// 00:00:00.000 through 23:59:59.999. The end is derived from the next
// calendar midnight rather than start+24h, so the window stays correct
// on DST-transition days where the local day is 23 or 25 hours long.
func DayBounds(day time.Time, loc *time.Location) (time.Time, time.Time) {
	if loc == nil {
		loc = time.Local
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day()+1, 0, 0, 0, 0, loc).Add(-time.Millisecond)
	return start, end
}

// FilterByDay keeps the items whose modifiedDate parses and falls inside
// the day's inclusive bounds. Items with a missing or unparseable
// timestamp are skipped, not errored: the upstream feed is known to be
// dirty and a single bad record must not block the day's aggregation.
// The skip count is returned so it can be surfaced as a metric.
func FilterByDay(items []orderitems.OrderItem, day time.Time, loc *time.Location) (kept []orderitems.OrderItem, skipped int) {
	start, end := DayBounds(day, loc)
	for _, item := range items {
		ts, ok := parseTimestamp(item.ModifiedDate, loc)
		if !ok {
			skipped++
			continue
		}
		if ts.Before(start) || ts.After(end) {
			continue
		}
		kept = append(kept, item)
	}
	return kept, skipped
}

func parseTimestamp(raw string, loc *time.Location) (time.Time, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, false
	}
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range timestampLayouts {
		if ts, err := time.ParseInLocation(layout, raw, loc); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
