package commands

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yigit/hostelhub/internal/app/models"
)

// RolesCmd creates the roles command group
func RolesCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "roles",
		Short: "Inspect and change role assignments",
	}
	cmd.AddCommand(rolesAssignCmd(app), rolesListCmd(app))
	return cmd
}

func rolesAssignCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "assign <email> <admin|guard|student>",
		Short: "Give an email a role, replacing any previous one",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, closeDB, err := app.Services()
			if err != nil {
				return err
			}
			defer closeDB()

			assignment, err := deps.RoleService.Assign(app.Ctx, args[0], args[1])
			if err != nil {
				return fmt.Errorf("failed to assign role: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", assignment.Email, assignment.Role)
			return nil
		},
	}
}

func rolesListCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List every role assignment",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			deps, closeDB, err := app.Services()
			if err != nil {
				return err
			}
			defer closeDB()

			assignments, err := deps.RoleService.List(app.Ctx)
			if err != nil {
				return fmt.Errorf("failed to list roles: %w", err)
			}
			return printAssignments(cmd.OutOrStdout(), assignments)
		},
	}
}

func printAssignments(w io.Writer, assignments []*models.RoleAssignment) error {
	if len(assignments) == 0 {
		_, err := fmt.Fprintln(w, "No role assignments. Everyone in the institution signs in as a student.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "EMAIL\tROLE\tASSIGNED")
	for _, a := range assignments {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", a.Email, a.Role, a.AssignedAt.Format("2006-01-02 15:04"))
	}
	return tw.Flush()
}
