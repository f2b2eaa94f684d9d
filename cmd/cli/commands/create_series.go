package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// CreateSeriesCmd creates the createSeries command
func CreateSeriesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "createSeries <template_name>",
		Short: "Expand a configured recurring series template into concrete shifts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			for _, template := range app.Cfg.SeriesTemplates {
				if template.Name != name {
					continue
				}

				shifts, err := services.CreateShiftSeries(app.Ctx, app.Database, app.Cfg, app.Logger, template)
				if err != nil {
					return err
				}

				fmt.Printf("\n✓ Created %d shifts from series %q!\n\n", len(shifts), name)
				for i, shift := range shifts {
					fmt.Printf("  %2d. %s at %s\n", i+1,
						shift.Start.In(app.Cfg.Location()).Format("2006-01-02 15:04 (Monday)"),
						shift.Location)
				}
				fmt.Println()

				return nil
			}

			return fmt.Errorf("no series template named %q in config", name)
		},
	}
}
