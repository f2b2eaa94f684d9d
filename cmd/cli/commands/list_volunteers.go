package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListVolunteersCmd creates the listVolunteers command
func ListVolunteersCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listVolunteers",
		Short: "List all active volunteers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			volunteers, err := app.Database.ListActiveVolunteers(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list volunteers: %w", err)
			}

			fmt.Printf("\nFound %d active volunteers:\n\n", len(volunteers))
			for _, v := range volunteers {
				grade := string(v.Grade)
				if grade == "" {
					grade = "ungraded"
				}
				fmt.Printf("- %s %s (%s) - %s - %d shifts, %d%% attendance\n",
					v.FirstName,
					v.LastName,
					v.ID,
					grade,
					v.CompletedShifts,
					v.AttendanceRate)
			}
			fmt.Println()

			return nil
		},
	}
}
