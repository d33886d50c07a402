package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/yigit/hostelhub/internal/app/services"
)

// StudentsCmd creates the students command group
func StudentsCmd(app *AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "students",
		Short: "Manage student records",
	}
	cmd.AddCommand(studentsImportCmd(app))
	return cmd
}

func studentsImportCmd(app *AppContext) *cobra.Command {
	var dryRun bool

	cmd := &cobra.Command{
		Use:   "import <file.csv>",
		Short: "Create students from a CSV with an email,full_name,... header (roll_no optional)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("failed to open %s: %w", args[0], err)
			}
			defer f.Close()

			inputs, err := services.ParseStudentCSV(f)
			if err != nil {
				return fmt.Errorf("failed to parse %s: %w", args[0], err)
			}
			if dryRun {
				fmt.Fprintf(cmd.OutOrStdout(), "%d student row(s) parsed, nothing written\n", len(inputs))
				return nil
			}

			deps, closeDB, err := app.Services()
			if err != nil {
				return err
			}
			defer closeDB()

			result := deps.StudentService.Import(app.Ctx, inputs)
			printImportResult(cmd.OutOrStdout(), result)
			if len(result.Failures) > 0 {
				return fmt.Errorf("%d row(s) failed", len(result.Failures))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Parse and validate the file without writing")
	return cmd
}

func printImportResult(w io.Writer, result services.ImportResult) {
	fmt.Fprintf(w, "Created %d student(s)\n", result.Created)
	if len(result.Failures) == 0 {
		return
	}
	fmt.Fprintf(w, "Failed %d row(s):\n", len(result.Failures))
	for _, f := range result.Failures {
		fmt.Fprintf(w, "  line %d (%s): %v\n", f.Line, f.RollNo, f.Err)
	}
}
