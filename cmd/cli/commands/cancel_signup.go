package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// CancelSignupCmd creates the cancelSignup command
func CancelSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cancelSignup <signup_id>",
		Short: "Cancel a signup, promoting from the waitlist if a slot frees up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			result, err := services.CancelSignup(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger, args[0], "cli")
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup %s canceled.\n", result.Canceled.ID)
			if result.Promoted != nil {
				fmt.Printf("  Promoted from waitlist: volunteer %s (signup %s)\n",
					result.Promoted.VolunteerID, result.Promoted.ID)
			}
			fmt.Println()

			return nil
		},
	}
}
