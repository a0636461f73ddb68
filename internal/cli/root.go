package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/domain"
	"github.com/roach88/ponto/internal/engine"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose  bool
	Format   string // "json" | "text"
	Config   string // YAML config path
	EnvFile  string // dotenv path
	Database string // overrides config database
	Actor    string // overrides config actor

	// Clock overrides the wall clock (for testing). Defaults to domain.SystemClock.
	Clock domain.Clock

	// Trace overrides the trace id generator (for testing). Defaults to UUIDv7Generator.
	Trace engine.TraceGenerator

	// LookupEnv overrides environment lookup (for testing). Defaults to os.LookupEnv.
	LookupEnv func(string) (string, bool)
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for the ponto CLI.
func NewRootCommand() *cobra.Command {
	return NewRootCommandWithOptions(&RootOptions{})
}

// NewRootCommandWithOptions creates the root command around opts so tests
// can inject a clock and trace generator.
func NewRootCommandWithOptions(opts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ponto",
		Short: "ponto - employee time clock ledger",
		Long: `Records employee clock-in, break and clock-out events, enforces the daily
sequence, computes worked time per day and month, and keeps an append-only
audit log of every change.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// Validate format flag
			if !isValidFormat(opts.Format) {
				return NewExitError(ExitCommandError, fmt.Sprintf("invalid format %q: must be one of %v", opts.Format, ValidFormats))
			}
			return nil
		},
	}

	// Global flags
	pf := cmd.PersistentFlags()
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "verbose output")
	pf.StringVar(&opts.Format, "format", "text", "output format (json|text)")
	pf.StringVar(&opts.Config, "config", "", "path to YAML config (default ./ponto.yaml if present)")
	pf.StringVar(&opts.EnvFile, "env-file", "", "path to dotenv file (default ./.env if present)")
	pf.StringVar(&opts.Database, "db", "", "path to SQLite database (overrides config)")
	pf.StringVar(&opts.Actor, "actor", "", "who is performing the operation (overrides config)")

	// Add subcommands
	cmd.AddCommand(NewEmployeeCommand(opts))
	cmd.AddCommand(NewRecordCommand(opts))
	cmd.AddCommand(NewAdjustCommand(opts))
	cmd.AddCommand(NewRemoveCommand(opts))
	cmd.AddCommand(NewEventsCommand(opts))
	cmd.AddCommand(NewTimesheetCommand(opts))
	cmd.AddCommand(NewSummaryCommand(opts))
	cmd.AddCommand(NewHolidayCommand(opts))
	cmd.AddCommand(NewDayOffCommand(opts))
	cmd.AddCommand(NewLogsCommand(opts))
	cmd.AddCommand(NewCheckpointCommand(opts))
	cmd.AddCommand(NewServeCommand(opts))

	return cmd
}

// isValidFormat checks if the format is one of the allowed values.
func isValidFormat(format string) bool {
	for _, f := range ValidFormats {
		if f == format {
			return true
		}
	}
	return false
}
