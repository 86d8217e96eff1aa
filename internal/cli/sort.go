package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortNone     SortOrder = ""
	SortByName   SortOrder = "username"
	SortByTotal  SortOrder = "total"
	SortByStreak SortOrder = "streak"
)

func parseSortOrder(s string) (SortOrder, error) {
	order := SortOrder(strings.ToLower(strings.TrimSpace(s)))
	switch order {
	case SortNone, SortByName, SortByTotal, SortByStreak:
		return order, nil
	}
	return "", fmt.Errorf("invalid sort: %s (must be 'username', 'total' or 'streak')", s)
}

// sortStats orders results in place. SortNone keeps argument order.
// Totals and streaks sort descending; ties fall back to username.
func sortStats(stats []contrib.Stats, order SortOrder) {
	switch order {
	case SortByName:
		sort.SliceStable(stats, func(i, j int) bool {
			return compareByName(stats[i], stats[j])
		})
	case SortByTotal:
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].TotalContributions != stats[j].TotalContributions {
				return stats[i].TotalContributions > stats[j].TotalContributions
			}
			return compareByName(stats[i], stats[j])
		})
	case SortByStreak:
		sort.SliceStable(stats, func(i, j int) bool {
			if stats[i].Streak != stats[j].Streak {
				return stats[i].Streak > stats[j].Streak
			}
			return compareByName(stats[i], stats[j])
		})
	}
}

func compareByName(i, j contrib.Stats) bool {
	return strings.ToLower(i.Username) < strings.ToLower(j.Username)
}
