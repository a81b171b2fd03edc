// Package notifier reports the run outcome to the operator. Notification is
// best effort: failures are logged and never affect the run result.
package notifier

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/jonesrussell/goslate/internal/config"
	"github.com/jonesrussell/goslate/internal/logger"
	"github.com/jonesrussell/goslate/internal/models"
)

// Notifier delivers the run summary to the console and, when configured,
// to Telegram.
type Notifier struct {
	log      logger.Interface
	out      io.Writer
	telegram *TelegramClient
}

// New creates a notifier writing its console summary to out. The Telegram
// channel is enabled only when both token and chat ID are configured.
func New(log logger.Interface, out io.Writer, cfg config.NotifyConfig) *Notifier {
	n := &Notifier{
		log: log.WithComponent("notifier"),
		out: out,
	}
	if cfg.TelegramToken != "" && cfg.TelegramChatID != "" {
		n.telegram = NewTelegramClient(cfg.TelegramToken, cfg.TelegramChatID)
	}
	return n
}

// Notify renders the summary to every configured channel. It never returns
// an error: a run that completed its work has succeeded whether or not the
// operator heard about it.
func (n *Notifier) Notify(ctx context.Context, summary *models.RunSummary) {
	n.printSummary(summary)

	if n.telegram == nil {
		n.log.Debug("Telegram notification skipped", "reason", "not configured")
		return
	}
	if err := n.telegram.SendMessage(ctx, formatTelegram(summary)); err != nil {
		n.log.Warn("Telegram notification failed", "error", err)
	}
}

// printSummary writes a human-readable run report to the console.
func (n *Notifier) printSummary(summary *models.RunSummary) {
	header := color.New(color.FgGreen, color.Bold)
	if !summary.Success {
		header = color.New(color.FgRed, color.Bold)
	}

	status := "completed"
	if !summary.Success {
		status = "FAILED"
	}
	elapsed := summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond)
	fmt.Fprintln(n.out, header.Sprintf("Run %s %s in %s", summary.RunID, status, elapsed))

	t := table.NewWriter()
	t.SetOutputMirror(n.out)
	t.AppendHeader(table.Row{"Stage", "Result"})
	t.AppendRows([]table.Row{
		{"Posts scraped", summary.PostsScraped},
		{"Posts filtered", summary.PostsFiltered},
		{"Insights", summary.InsightCount},
		{"Slots planned", summary.SlotsPlanned},
		{"Posts generated", summary.PostsGenerated},
		{"Failures", summary.FailureCount},
	})
	t.SetStyle(table.StyleLight)
	t.Render()

	for _, f := range summary.Failures {
		fmt.Fprintf(n.out, "  %s %s/%s: %s\n",
			color.YellowString("warn"), f.Stage, f.Subject, f.Reason)
	}
	for _, path := range summary.ExportedFiles {
		fmt.Fprintf(n.out, "  exported %s\n", path)
	}
	if summary.FatalError != "" {
		fmt.Fprintf(n.out, "  %s %s\n", color.RedString("fatal"), summary.FatalError)
	}
}

// formatTelegram renders the summary as a compact Telegram message.
func formatTelegram(summary *models.RunSummary) string {
	var b strings.Builder

	if summary.Success {
		b.WriteString("✅ Content run completed\n")
	} else {
		b.WriteString("❌ Content run failed\n")
	}
	fmt.Fprintf(&b, "Run: %s\n", summary.RunID)
	fmt.Fprintf(&b, "Scraped: %d (filtered %d)\n", summary.PostsScraped, summary.PostsFiltered)
	fmt.Fprintf(&b, "Insights: %d\n", summary.InsightCount)
	fmt.Fprintf(&b, "Generated: %d/%d slots\n", summary.PostsGenerated, summary.SlotsPlanned)

	if summary.FailureCount > 0 {
		fmt.Fprintf(&b, "Failures: %d\n", summary.FailureCount)
		for _, f := range summary.Failures {
			fmt.Fprintf(&b, "• %s/%s: %s\n", f.Stage, f.Subject, f.Reason)
		}
	}
	if summary.FatalError != "" {
		fmt.Fprintf(&b, "Fatal: %s\n", summary.FatalError)
	}
	return b.String()
}
