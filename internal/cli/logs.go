package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/roach88/ponto/internal/domain"
)

type auditList []domain.AuditEntry

func (l auditList) RenderText(w io.Writer) {
	if len(l) == 0 {
		fmt.Fprintln(w, "No log entries.")
		return
	}
	for _, e := range l {
		fmt.Fprintf(w, "%-6d %s %-8s %-12s %-12s %s\n",
			e.ID, e.Timestamp.Format("2006-01-02 15:04:05"), e.Status, e.Category, e.Actor, e.Action)
		if e.Details != "" {
			fmt.Fprintf(w, "       %s\n", e.Details)
		}
	}
}

type auditSummary map[domain.Category]domain.Outcome

func (s auditSummary) RenderText(w io.Writer) {
	if len(s) == 0 {
		fmt.Fprintln(w, "No log entries.")
		return
	}
	fmt.Fprintf(w, "%-14s %8s %8s\n", "category", "sucesso", "falha")
	for _, c := range domain.Categories {
		if o, ok := s[c]; ok {
			fmt.Fprintf(w, "%-14s %8d %8d\n", c, o.Success, o.Failure)
		}
	}
}

type purgeOutput struct {
	Removed int64 `json:"removed"`
	Days    int   `json:"days"`
}

func (p purgeOutput) RenderText(w io.Writer) {
	fmt.Fprintf(w, "Removed %d log entries older than %d days\n", p.Removed, p.Days)
}

// NewLogsCommand creates the logs command group.
func NewLogsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Inspect and maintain the audit log",
	}
	cmd.AddCommand(newLogsListCommand(rootOpts))
	cmd.AddCommand(newLogsSummaryCommand(rootOpts))
	cmd.AddCommand(newLogsPurgeCommand(rootOpts))
	return cmd
}

func newLogsListCommand(rootOpts *RootOptions) *cobra.Command {
	var (
		limit            int
		category, actor  string
		fromFlag, toFlag string
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List audit entries, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			filter := domain.AuditFilter{Limit: limit, Actor: domain.Actor(actor)}
			if category != "" {
				if filter.Category, err = domain.ParseCategory(category); err != nil {
					return s.out.Fail("invalid arguments", err)
				}
			}
			if filter.From, err = parseOptionalDate(fromFlag); err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			if filter.To, err = parseOptionalDate(toFlag); err != nil {
				return s.out.Fail("invalid arguments", err)
			}

			entries, err := s.audit.Query(commandContext(cmd), filter)
			if err != nil {
				return s.out.Fail("query logs failed", err)
			}
			return s.out.Success(auditList(entries))
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 100, "maximum entries")
	cmd.Flags().StringVar(&category, "category", "", "filter by category")
	cmd.Flags().StringVar(&actor, "by", "", "filter by actor")
	cmd.Flags().StringVar(&fromFlag, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&toFlag, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func newLogsSummaryCommand(rootOpts *RootOptions) *cobra.Command {
	var fromFlag, toFlag string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Count audit entries per category and status",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			from, err := parseOptionalDate(fromFlag)
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}
			to, err := parseOptionalDate(toFlag)
			if err != nil {
				return s.out.Fail("invalid arguments", err)
			}

			summary, err := s.audit.Summarize(commandContext(cmd), from, to)
			if err != nil {
				return s.out.Fail("summarize logs failed", err)
			}
			return s.out.Success(auditSummary(summary))
		},
	}

	cmd.Flags().StringVar(&fromFlag, "from", "", "first day, YYYY-MM-DD")
	cmd.Flags().StringVar(&toFlag, "to", "", "last day, YYYY-MM-DD")
	return cmd
}

func newLogsPurgeCommand(rootOpts *RootOptions) *cobra.Command {
	var days int

	cmd := &cobra.Command{
		Use:   "purge",
		Short: "Delete audit entries older than the retention period",
		Long: `Delete audit entries stamped strictly before now minus --days days.
An entry exactly at the cutoff is kept. The purge itself is logged.

Example:
  ponto logs purge --days 90`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if !cmd.Flags().Changed("days") {
				days = s.cfg.LogRetentionDays
			}
			removed, err := s.audit.PurgeOlderThan(commandContext(cmd), s.actor, days)
			if err != nil {
				return s.out.Fail("purge logs failed", err)
			}
			return s.out.Success(purgeOutput{Removed: removed, Days: days})
		},
	}

	cmd.Flags().IntVar(&days, "days", 90, "retention in days (default from config)")
	return cmd
}

// NewCheckpointCommand creates the checkpoint command.
func NewCheckpointCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "checkpoint",
		Short: "Flush the write-ahead log before an external backup",
		Long: `Run a truncating WAL checkpoint so the main database file is complete and
can be copied by a backup job. Writes are not paused; the copy is a
best-effort snapshot.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := openSession(rootOpts, cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.ledger.Checkpoint(commandContext(cmd), s.actor); err != nil {
				return s.out.Fail("checkpoint failed", err)
			}
			return s.out.Success(resultOutput{OK: true, Message: "checkpoint complete"})
		},
	}
}
