package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/notification"
	"github.com/ikigai-ua/formrelay/internal/service"
	"github.com/ikigai-ua/formrelay/internal/storage"
)

// NewSubmissionsCmd returns the "submissions" command group.
func NewSubmissionsCmd(cfg *config.AppConfig) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submissions",
		Short: "Inspect stored contact requests",
	}
	cmd.AddCommand(newSubmissionsListCmd(cfg))
	return cmd
}

func newSubmissionsListCmd(cfg *config.AppConfig) *cobra.Command {
	var limit int
	var asJSON bool

	cmd := &cobra.Command{
		Use:         "list",
		Annotations: needsConfig,
		Short:       "List the most recent contact requests, newest first",
		Args:        cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			store, err := openStore(ctx, cfg)
			if err != nil {
				return fmt.Errorf("opening submission store: %w", err)
			}
			defer store.Close() //nolint:errcheck

			svc := service.NewSubmissionService(cfg.Mail, notification.NewSMTPProvider(cfg.Mail), store,
				slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()})),
				service.WithLocation(cfg.Location()))

			subs, err := svc.List(ctx, limit)
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(subs)
			}
			renderSubmissions(cmd.OutOrStdout(), subs, cfg.Location())
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "Maximum number of records to show")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print records as JSON")
	return cmd
}

const listTimeLayout = "02.01.2006 15:04"

func renderSubmissions(w io.Writer, subs []storage.Submission, loc *time.Location) {
	if len(subs) == 0 {
		fmt.Fprintln(w, labelStyle.UnsetWidth().Render("No contact requests yet."))
		return
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("63"))).
		Headers("RECEIVED", "NAME", "PHONE", "MESSAGE", "STATUS").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})

	for _, s := range subs {
		t.Row(
			s.ReceivedAt.In(loc).Format(listTimeLayout),
			s.Name,
			s.Phone,
			truncate(s.Message, 40),
			s.Status,
		)
	}
	fmt.Fprintln(w, t.String())
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
