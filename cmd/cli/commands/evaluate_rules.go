package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/communitykitchenhq/shiftdesk/pkg/core/services"
)

// EvaluateRulesCmd creates the evaluateRules command
func EvaluateRulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "evaluateRules <volunteer_id> <shift_id>",
		Short: "Preview the auto-accept verdict for a volunteer/shift pair",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			preview, err := services.EvaluateRules(app.Ctx, app.Database, app.Cfg, app.Logger, args[0], args[1])
			if err != nil {
				return err
			}

			fmt.Printf("\nVerdict: %s\n", preview.Verdict.Status)
			if preview.Verdict.MatchedRuleID != "" {
				fmt.Printf("Matched rule: %s\n", preview.Verdict.MatchedRuleID)
			}
			if len(preview.AllMatching) > 0 {
				fmt.Printf("All matching rules: %v\n", preview.AllMatching)
			}

			fmt.Printf("\nVolunteer facts:\n")
			fmt.Printf("  Grade:            %s\n", preview.Context.VolunteerGrade)
			fmt.Printf("  Completed shifts: %d\n", preview.Context.CompletedShifts)
			fmt.Printf("  Attendance rate:  %d%%\n", preview.Context.AttendanceRate)
			fmt.Printf("  Account age:      %d days\n", preview.Context.AccountAgeDays)
			fmt.Printf("  Days until shift: %d\n", preview.Context.DaysUntilShift)
			fmt.Printf("  Type experience:  %t\n\n", preview.Context.HasShiftTypeExperience)

			return nil
		},
	}
}
