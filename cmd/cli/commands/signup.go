package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// SignupCmd creates the signup command
func SignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "signup <volunteer_id> <shift_id>",
		Short: "Request a signup for a volunteer on a shift",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			signup, err := services.RequestSignup(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup processed!\n\n")
			fmt.Printf("Signup ID: %s\n", signup.ID)
			fmt.Printf("Status:    %s\n", signup.Status)
			fmt.Printf("Queue:     %s\n\n", signup.Queue)

			return nil
		},
	}
}
