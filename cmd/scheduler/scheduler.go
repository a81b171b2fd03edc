// Package scheduler implements the scheduler command: it runs the content
// pipeline on a cron schedule until interrupted.
package scheduler

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/goslate/cmd/common"
	"github.com/jonesrussell/goslate/internal/timeutil"
)

// defaultCronSpec runs the pipeline every morning at 06:00 so the calendar
// is ready before the first posting window.
const defaultCronSpec = "0 6 * * *"

// Command returns the scheduler command for use in the root command.
func Command() *cobra.Command {
	var cronSpec string

	cmd := &cobra.Command{
		Use:   "scheduler",
		Short: "Run the content pipeline on a daily schedule",
		Long: `Start the scheduler to run the content pipeline automatically.
Each scheduled run plans content for the following day. The scheduler runs
continuously until interrupted with Ctrl+C.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScheduler(cmd.Context(), cronSpec)
		},
	}

	cmd.Flags().StringVar(&cronSpec, "cron", defaultCronSpec,
		"cron expression for pipeline runs (UK time)")

	return cmd
}

func runScheduler(ctx context.Context, cronSpec string) error {
	deps, err := common.NewCommandDeps()
	if err != nil {
		return fmt.Errorf("failed to initialize dependencies: %w", err)
	}
	log := deps.Logger.WithComponent("scheduler")

	p, err := common.NewPipeline(ctx, deps)
	if err != nil {
		return fmt.Errorf("failed to build pipeline: %w", err)
	}
	defer p.Close()

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	c := cron.New(cron.WithLocation(timeutil.UKZone()))
	_, err = c.AddFunc(cronSpec, func() {
		date := timeutil.Tomorrow()
		log.Info("Scheduled run starting", "date", date.Format("2006-01-02"))
		if _, runErr := p.Orchestrator.Run(ctx, date); runErr != nil {
			log.Error("Scheduled run failed", "error", runErr)
		}
	})
	if err != nil {
		return fmt.Errorf("invalid cron expression %q: %w", cronSpec, err)
	}

	c.Start()
	log.Info("Scheduler started", "cron", cronSpec)

	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Let an in-flight run finish before exiting.
	<-c.Stop().Done()
	log.Info("Scheduler stopped")
	return nil
}
