package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// RecordOutcomesCmd creates the recordOutcomes command
func RecordOutcomesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "recordOutcomes <shift_id>",
		Short: "Close out an ended shift: credit attendance and apply grade promotions",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.RecordShiftOutcomes(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Outcomes recorded for shift %s!\n\n", result.ShiftID)
			fmt.Printf("Attended: %d\n", result.Attended)
			fmt.Printf("No-shows: %d\n", result.NoShows)
			if len(result.GradePromotions) > 0 {
				fmt.Printf("\nGrade promotions:\n")
				for volunteerID, grade := range result.GradePromotions {
					fmt.Printf("  %s -> %s\n", volunteerID, grade)
				}
			}
			fmt.Println()

			return nil
		},
	}
}
