// Package cli implements the command-line interface for contrib-tracker.
//
// The cli package provides the Cobra-based CLI with two commands: serve, which runs
// the HTTP service, and stats, which summarizes one or more users directly on stdout
// as text or JSON. Both load configuration from the environment and share the
// scraper client and structured logger setup.
package cli
