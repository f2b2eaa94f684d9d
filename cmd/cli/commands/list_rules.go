package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

// ListRulesCmd creates the listRules command
func ListRulesCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "listRules",
		Short: "List the auto-accept rules in evaluation order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := app.Database.ListRules(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list rules: %w", err)
			}

			fmt.Printf("\nFound %d auto-accept rules:\n\n", len(rules))
			for _, rule := range rules {
				state := "enabled"
				if !rule.Enabled {
					state = "disabled"
				}
				scope := "global"
				if rule.ShiftTypeID != nil {
					scope = "shift type " + *rule.ShiftTypeID
				}
				fmt.Printf("- [P%d] %s (%s, %s, %s logic", rule.Priority, rule.Name, rule.ID, state, rule.CriteriaLogic)
				if rule.StopOnMatch {
					fmt.Printf(", stop-on-match")
				}
				fmt.Printf(") - %s\n", scope)
			}
			fmt.Println()

			return nil
		},
	}
}
