package contrib

import "time"

// Summarize folds days into Stats for the window [today-30, today].
//
// Days are matched by calendar date, so the order of the input does not
// matter. The streak walks backward from today and stops at the first date
// without contributions; an inactive today yields a streak of 0.
func Summarize(username string, days []Day, today time.Time) Stats {
	today = Today(today)
	start := today.AddDate(0, 0, -WindowDays)

	stats := Stats{
		Username: username,
		LastDay:  NoActivity,
	}

	active := make(map[time.Time]bool)
	var last time.Time
	for _, d := range days {
		date := Today(d.Date)
		if date.Before(start) || date.After(today) {
			continue
		}
		stats.TotalContributions += d.Count
		if d.Count <= 0 {
			continue
		}
		active[date] = true
		if date.After(last) {
			last = date
		}
	}

	if len(active) > 0 {
		stats.LastDay = last.Format(DateLayout)
	}

	for date := today; active[date]; date = date.AddDate(0, 0, -1) {
		stats.Streak++
	}

	return stats
}
