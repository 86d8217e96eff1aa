package contrib

import (
	"strconv"
	"strings"
	"time"
)

const (
	// WindowDays is how far back from today the summary looks (inclusive).
	WindowDays = 30

	// DateLayout is the layout of graph dates and of Stats.LastDay.
	DateLayout = "2006-01-02"

	// NoActivity is reported as LastDay when no day in the window is active.
	NoActivity = "N/A"

	// ConnectionError is the LastDay sentinel for transport failures.
	ConnectionError = "Connection error"

	// ParseError is the LastDay sentinel for markup that could not be read.
	ParseError = "Error parsing page"
)

// Day is a single cell of the contribution graph
type Day struct {
	Date  time.Time `json:"date"`
	Count int       `json:"count"`
}

// Stats is the summary returned for a user
type Stats struct {
	Username           string `json:"username"`
	TotalContributions int    `json:"total_contributions"`
	Streak             int    `json:"streak"`
	LastDay            string `json:"last_day"`
}

// Failed creates a sentinel Stats with zeroed counts and reason as LastDay.
func Failed(username, reason string) Stats {
	return Stats{
		Username: username,
		LastDay:  reason,
	}
}

// StatusReason formats the LastDay sentinel for an upstream status code.
func StatusReason(code int) string {
	return "Error " + strconv.Itoa(code)
}

// Failed reports whether s carries a fetch failure sentinel instead of a date.
func (s Stats) Failed() bool {
	return s.LastDay == ConnectionError || strings.HasPrefix(s.LastDay, "Error")
}

// Today truncates now to its UTC calendar date.
func Today(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

// ParseDate parses a graph date ("2026-10-18") into a UTC midnight time.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, strings.TrimSpace(s), time.UTC)
}
