package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/model"
)

// ListShiftsCmd creates the listShifts command
func ListShiftsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "listShifts",
		Short: "List upcoming shifts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			days, _ := cmd.Flags().GetInt("days")

			now := time.Now()
			shifts, err := app.Database.ListShiftsBetween(app.Ctx, now, now.AddDate(0, 0, days))
			if err != nil {
				return fmt.Errorf("failed to list shifts: %w", err)
			}

			fmt.Printf("\nFound %d shifts in the next %d days:\n\n", len(shifts), days)
			for _, shift := range shifts {
				confirmed := 0
				signups, err := app.Database.ListSignupsForShift(app.Ctx, shift.ID)
				if err != nil {
					return fmt.Errorf("failed to list signups for shift %s: %w", shift.ID, err)
				}
				for _, signup := range signups {
					if signup.Status == model.StatusConfirmed {
						confirmed++
					}
				}
				fmt.Printf("- %s  %s at %s  (%d/%d confirmed)\n",
					shift.ID,
					shift.Start.In(app.Cfg.Location()).Format("2006-01-02 15:04"),
					shift.Location,
					confirmed,
					shift.Capacity)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().Int("days", 28, "How many days ahead to list")

	return cmd
}
