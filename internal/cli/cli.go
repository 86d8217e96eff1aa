package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"

	"github.com/pfrederiksen/contrib-tracker/internal/config"
	"github.com/pfrederiksen/contrib-tracker/internal/logger"
	"github.com/pfrederiksen/contrib-tracker/internal/scraper"
	"github.com/pfrederiksen/contrib-tracker/internal/server"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitFetchFailed = 2
)

// ErrFetchFailed is returned by the stats command when any user could not be fetched.
var ErrFetchFailed = errors.New("one or more users could not be fetched")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "contrib-tracker",
		Short: "Summarize a user's last 30 days of public contributions",
		Long: `contrib-tracker reads a user's public contribution graph and reports
the total contributions over the last 30 days, the current daily streak
and the last active day. Run it as an HTTP service or query users directly.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose/debug logging")

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newStatsCmd())

	return cmd
}

func newServeCmd() *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			if port != "" {
				cfg.Port = port
				if err := cfg.Validate(); err != nil {
					return err
				}
			}

			verbose, _ := cmd.Flags().GetBool("verbose")
			level := cfg.Level()
			if verbose {
				level = logger.LevelDebug
			}
			log := logger.New(level, logger.Output(os.Stderr, cfg.LogFile))
			logger.SetDefault(log)

			gin.SetMode(cfg.GinMode)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			client := scraper.New(scraper.WithBaseURL(cfg.UpstreamURL), scraper.WithLogger(log))
			router := server.NewRouter(client, log)

			return server.Run(ctx, net.JoinHostPort("", cfg.Port), router, log)
		},
	}

	cmd.Flags().StringVarP(&port, "port", "p", "", "Listen port (overrides PORT)")

	return cmd
}

func newStatsCmd() *cobra.Command {
	var (
		format string
		order  string
	)

	cmd := &cobra.Command{
		Use:   "stats <username>...",
		Short: "Print the 30-day summary for one or more users",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			outFormat := OutputFormat(strings.ToLower(format))
			if outFormat != FormatText && outFormat != FormatJSON {
				return fmt.Errorf("invalid format: %s (must be 'text' or 'json')", format)
			}
			sortOrder, err := parseSortOrder(order)
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}

			// Diagnostics stay off unless asked for; stdout carries the results.
			log := logger.Nop()
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				log = logger.New(logger.LevelDebug, logger.Output(cmd.ErrOrStderr(), cfg.LogFile))
			}

			client := scraper.New(scraper.WithBaseURL(cfg.UpstreamURL), scraper.WithLogger(log))
			results := fetchAll(cmd.Context(), client, args, cfg.Concurrency)
			sortStats(results, sortOrder)

			result := &OutputResult{
				CheckedAt: time.Now().UTC(),
				Users:     results,
			}
			for _, s := range results {
				if s.Failed() {
					result.FailedCount++
				}
			}

			if err := WriteOutput(cmd.OutOrStdout(), result, outFormat); err != nil {
				return fmt.Errorf("writing output: %w", err)
			}

			if result.FailedCount > 0 {
				return ErrFetchFailed
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "text", "Output format: text or json")
	cmd.Flags().StringVar(&order, "sort", "", "Sort users by: username, total or streak (default: argument order)")

	return cmd
}

// Execute runs the CLI
func Execute() {
	err := NewRootCmd().Execute()
	switch {
	case err == nil:
		os.Exit(ExitSuccess)
	case errors.Is(err, ErrFetchFailed):
		os.Exit(ExitFetchFailed)
	default:
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(ExitError)
	}
}
