package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/contrib-tracker/internal/contrib"
	"github.com/pfrederiksen/contrib-tracker/internal/server"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// OutputResult contains data to be output
type OutputResult struct {
	CheckedAt   time.Time       `json:"checked_at"`
	Users       []contrib.Stats `json:"users"`
	FailedCount int             `json:"failed_count"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs one summary block per user, failures as detail lines
func writeText(w io.Writer, result *OutputResult) error {
	if len(result.Users) == 0 {
		_, err := fmt.Fprintln(w, "No users given.")
		return err
	}

	for i, s := range result.Users {
		if i > 0 {
			if _, err := fmt.Fprintln(w); err != nil {
				return err
			}
		}

		if s.Failed() {
			if _, err := fmt.Fprintf(w, "Error: %s\n", server.FailureDetail(s)); err != nil {
				return err
			}
			continue
		}

		if err := server.WriteText(w, s); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(w); err != nil {
			return err
		}
	}

	return nil
}
