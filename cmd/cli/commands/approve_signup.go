package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// ApproveSignupCmd creates the approveSignup command
func ApproveSignupCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "approveSignup <signup_id>",
		Short: "Manually approve a pending signup",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			signup, err := services.ApproveSignup(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger, args[0])
			if err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup %s is now %s.\n\n", signup.ID, signup.Status)

			return nil
		},
	}
}
