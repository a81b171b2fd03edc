// Package platforms implements the platforms command for inspecting the
// configured posting targets.
package platforms

import (
	"fmt"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/jonesrussell/goslate/cmd/common"
)

// Command returns the platforms command for use in the root command.
func Command() *cobra.Command {
	return &cobra.Command{
		Use:   "platforms",
		Short: "List the configured platforms",
		Long: `List every configured platform with its posting quota, time windows
and character limits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, err := common.NewCommandDeps()
			if err != nil {
				return fmt.Errorf("failed to initialize dependencies: %w", err)
			}

			t := table.NewWriter()
			t.SetOutputMirror(os.Stdout)
			t.AppendHeader(table.Row{
				"Platform", "Enabled", "Posts/Day", "Time Windows", "Chars", "Content Types",
			})
			for _, p := range deps.Config.Platforms {
				t.AppendRow(table.Row{
					p.Name,
					p.Enabled,
					p.PostsPerDay,
					strings.Join(p.TimeWindows, ", "),
					fmt.Sprintf("%d-%d", p.MinChars, p.MaxChars),
					strings.Join(p.ContentTypes, ", "),
				})
			}
			t.SetStyle(table.StyleLight)
			t.Render()
			return nil
		},
	}
}
