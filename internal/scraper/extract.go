package scraper

import (
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
)

// cellSelector matches contribution graph cells: SVG rects on the legacy
// graph, table cells on the current one.
const cellSelector = "rect[data-date], td[data-date]"

// fallbackCountAttrs are tried in order on any dated element.
var fallbackCountAttrs = []string{"data-count", "data-level", "data-contributions"}

// "3 contributions on October 5th." -> 3
var labelCountPattern = regexp.MustCompile(`(\d+)\s+contribution`)

// strategy extracts candidate days from a parsed page
type strategy func(doc *goquery.Document) []contrib.Day

// strategies are tried in order; the first non-empty result wins.
var strategies = []strategy{
	graphCells,
	anyDatedElement,
}

// Extract parses contribution markup and returns the days found by the first
// strategy that yields any. It returns ErrNoContributions when none do.
func Extract(r io.Reader) ([]contrib.Day, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}

	for _, s := range strategies {
		if days := s(doc); len(days) > 0 {
			return days, nil
		}
	}

	return nil, ErrNoContributions
}

// graphCells reads graph cells. A non-empty data-count is the count; otherwise
// it is taken from the aria-label or, failing that, from the tool-tip element
// pointing at the cell.
func graphCells(doc *goquery.Document) []contrib.Day {
	tooltips := make(map[string]string)
	doc.Find("tool-tip[for]").Each(func(i int, tip *goquery.Selection) {
		tooltips[tip.AttrOr("for", "")] = strings.TrimSpace(tip.Text())
	})

	days := make([]contrib.Day, 0)
	doc.Find(cellSelector).Each(func(i int, cell *goquery.Selection) {
		count := strings.TrimSpace(cell.AttrOr("data-count", ""))
		if count == "" {
			label := cell.AttrOr("aria-label", "")
			if label == "" {
				label = tooltips[cell.AttrOr("id", "")]
			}

			var ok bool
			if count, ok = countFromLabel(label); !ok {
				return
			}
		}

		if day, ok := parseDay(cell.AttrOr("data-date", ""), count); ok {
			days = append(days, day)
		}
	})
	return days
}

// anyDatedElement is the last resort: any element with data-date and one of
// fallbackCountAttrs.
func anyDatedElement(doc *goquery.Document) []contrib.Day {
	days := make([]contrib.Day, 0)
	doc.Find("[data-date]").Each(func(i int, el *goquery.Selection) {
		date := el.AttrOr("data-date", "")
		for _, attr := range fallbackCountAttrs {
			count, ok := el.Attr(attr)
			if !ok || count == "" {
				continue
			}
			if day, ok := parseDay(date, count); ok {
				days = append(days, day)
				return
			}
		}
	})
	return days
}

// countFromLabel returns the first integer preceding "contribution".
func countFromLabel(label string) (string, bool) {
	m := labelCountPattern.FindStringSubmatch(label)
	if m == nil {
		return "", false
	}
	return m[1], true
}

func parseDay(dateText, countText string) (contrib.Day, bool) {
	date, err := contrib.ParseDate(dateText)
	if err != nil {
		return contrib.Day{}, false
	}
	count, err := strconv.Atoi(strings.TrimSpace(countText))
	if err != nil || count < 0 {
		return contrib.Day{}, false
	}
	return contrib.Day{Date: date, Count: count}, true
}
