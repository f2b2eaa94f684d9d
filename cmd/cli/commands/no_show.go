package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// MarkNoShowCmd creates the markNoShow command
func MarkNoShowCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "markNoShow <signup_id>",
		Short: "Mark a confirmed signup as a no-show after the shift has ended",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := services.MarkNoShow(app.Ctx, app.Database, app.Sink, app.Cfg, app.Logger, args[0]); err != nil {
				return err
			}

			fmt.Printf("\n✓ Signup %s marked as no-show.\n\n", args[0])

			return nil
		},
	}
}
