package server

import (
	"fmt"
	"io"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/scraper"
)

// WriteText renders stats as the plain-text summary block.
func WriteText(w io.Writer, s contrib.Stats) error {
	_, err := fmt.Fprintf(w, "## %s's contributions\n"+
		"- Total contributions (last %d days): %d\n"+
		"- Current streak: %d days\n"+
		"- Last active day: %s",
		s.Username, contrib.WindowDays, s.TotalContributions, s.Streak, s.LastDay)
	return err
}

// FailureDetail is the message returned when stats could not be fetched.
func FailureDetail(s contrib.Stats) string {
	return fmt.Sprintf("Could not fetch data for %s: %s", s.Username, s.LastDay)
}

// Settle folds a fetch error into s. A non-nil err always produces a failure
// sentinel, whatever stats the fetcher returned alongside it.
func Settle(username string, s contrib.Stats, err error) contrib.Stats {
	if err != nil && !s.Failed() {
		return contrib.Failed(username, scraper.Reason(err))
	}
	return s
}
