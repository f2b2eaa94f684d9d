package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// MoveCmd creates the move command
func MoveCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "move <signup_id> <target_shift_id>",
		Short: "Move a confirmed volunteer to a different shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")

			signup, err := services.MoveVolunteer(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger,
				args[0], args[1], notes)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Volunteer moved!\n\n")
			fmt.Printf("Signup ID:   %s\n", signup.ID)
			fmt.Printf("Now on:      %s\n", signup.ShiftID)
			if signup.OriginalShiftID != nil {
				fmt.Printf("Originally:  %s\n", *signup.OriginalShiftID)
			}
			fmt.Println()

			return nil
		},
	}

	cmd.Flags().String("notes", "", "Placement notes recorded on the signup")

	return cmd
}

// PlaceCmd creates the place command for flexible-queue signups
func PlaceCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "place <signup_id> <target_shift_id>",
		Short: "Place a flexible-queue signup onto a concrete shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			notes, _ := cmd.Flags().GetString("notes")

			signup, err := services.PlaceFlexible(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger,
				args[0], args[1], notes)
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Volunteer placed!\n\n")
			fmt.Printf("Signup ID: %s\n", signup.ID)
			fmt.Printf("Shift:     %s\n", signup.ShiftID)
			fmt.Printf("Placed at: %s\n\n", signup.PlacedAt.Format("2006-01-02 15:04"))

			return nil
		},
	}

	cmd.Flags().String("notes", "", "Placement notes recorded on the signup")

	return cmd
}
