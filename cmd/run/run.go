// Package run implements the run command: one full pipeline pass producing
// a content calendar for a single date.
package run

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jonesrussell/goslate/cmd/common"
	"github.com/jonesrussell/goslate/internal/timeutil"
)

// Command returns the run command for use in the root command.
func Command() *cobra.Command {
	var dateFlag string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the content pipeline once",
		Long: `Run the full content pipeline once: scrape trending posts, extract
keyword insights, plan the day's slots, generate content and export the
calendar. By default content is planned for tomorrow.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			date, err := resolveDate(dateFlag)
			if err != nil {
				return err
			}

			p, err := common.NewPipeline(cmd.Context(), deps)
			if err != nil {
				return fmt.Errorf("failed to build pipeline: %w", err)
			}
			defer p.Close()

			if _, err := p.Orchestrator.Run(cmd.Context(), date); err != nil {
				return fmt.Errorf("pipeline run failed: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&dateFlag, "date", "",
		"date to plan content for, YYYY-MM-DD (default tomorrow)")

	return cmd
}

// resolveDate parses the --date flag, defaulting to tomorrow in UK time.
func resolveDate(flag string) (time.Time, error) {
	if flag == "" {
		return timeutil.Tomorrow(), nil
	}
	date, err := time.ParseInLocation("2006-01-02", flag, timeutil.UKZone())
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", flag, err)
	}
	return date, nil
}
