package services

import (
	"time"

	"github.com/comitanigiacomo/kanso-local/internal/core/domain"
)

func completionDates(completions []*domain.Completion) map[string]bool {
	dates := make(map[string]bool, len(completions))
	for _, c := range completions {
		if c.Count > 0 && !c.IsDeleted() {
			dates[c.Date] = true
		}
	}
	return dates
}

// Streak walks back one calendar day at a time from reference and counts the
// days present in dates, stopping at the first gap. A reference day without a
// completion gives 0. Target days are ignored: a habit due only
// on weekdays still loses its streak over a weekend.
func Streak(dates map[string]bool, reference time.Time) int {
	day := time.Date(reference.Year(), reference.Month(), reference.Day(), 0, 0, 0, 0, time.UTC)

	streak := 0
	for dates[domain.FormatDate(day)] {
		streak++
		day = day.AddDate(0, 0, -1)
	}
	return streak
}

// latestDate returns the most recent well-formed date in dates.
func latestDate(dates map[string]bool) (time.Time, bool) {
	var latest time.Time
	found := false
	for d := range dates {
		t, err := domain.ParseDate(d)
		if err != nil {
			continue
		}
		if !found || t.After(latest) {
			latest = t
			found = true
		}
	}
	return latest, found
}
