// Package scraper fetches a user's public contribution graph and extracts per-day counts.
//
// The contributions page is requested once per call with a fixed 30 second timeout
// and a browser User-Agent, without retries. Transport failures and non-2xx responses
// are reported as *TransportError and *StatusError, each carrying the sentinel text
// used for the degraded summary.
//
// Extraction runs an ordered list of independent strategies over the markup and keeps
// the first non-empty result: graph cells, counted from data-count or, when that is
// missing or empty, from their label or tooltip; then any element with a data-date
// paired with one of several count attributes. Cells with malformed dates or counts are
// skipped rather than failing the whole page.
package scraper
