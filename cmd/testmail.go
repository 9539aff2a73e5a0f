package cmd

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ikigai-ua/formrelay/internal/config"
	"github.com/ikigai-ua/formrelay/internal/notification"
	"github.com/ikigai-ua/formrelay/internal/service"
)

// NewTestMailCmd returns the "test-mail" subcommand that verifies SMTP settings.
func NewTestMailCmd(cfg *config.AppConfig) *cobra.Command {
	return &cobra.Command{
		Use:         "test-mail",
		Annotations: needsConfig,
		Short:       "Send a test email to RECEIVING_EMAIL",
		Long: `Send a test email with the current SMTP_* settings to RECEIVING_EMAIL.
Nothing is stored.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			log := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: cfg.SlogLevel()}))
			provider := notification.NewSMTPProvider(cfg.Mail)
			svc := service.NewSubmissionService(cfg.Mail, provider, nil, log, service.WithLocation(cfg.Location()))
			return runTestMail(cmd, svc, cfg.Mail.Recipient)
		},
	}
}

func runTestMail(cmd *cobra.Command, svc service.SubmissionService, recipient string) error {
	out := cmd.OutOrStdout()

	if err := svc.SendTest(cmd.Context()); err != nil {
		var ce *service.ConfigError
		if errors.As(err, &ce) {
			fmt.Fprintln(out, errStyle.Render("✗ mail configuration incomplete"))
			for _, name := range ce.Missing {
				fmt.Fprintf(out, "  missing %s\n", name)
			}
			return err
		}
		fmt.Fprintln(out, errStyle.Render("✗ test email not sent"))
		return err
	}

	fmt.Fprintln(out, okStyle.Render("✓ test email sent to "+recipient))
	return nil
}
