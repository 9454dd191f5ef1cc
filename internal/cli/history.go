package cli

import (
	"fmt"
	"os"

	"github.com/haatos/simple-ci-metrics/internal/history"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/spf13/cobra"
)

func newHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Import and export YAML build history files",
	}

	var output string
	export := &cobra.Command{
		Use:   "export <job>",
		Short: "Write the stored history of a job as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(settings.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			j, err := a.jobService.GetJobByName(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("job %q: %w", args[0], err)
			}
			f, err := a.jobService.ExportHistory(cmd.Context(), j.JobID)
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if output != "" {
				out, err := os.Create(output)
				if err != nil {
					return err
				}
				defer out.Close()
				w = out
			}
			return history.Encode(w, f)
		},
	}
	export.Flags().StringVarP(&output, "output", "o", "", "file to write instead of stdout")

	imp := &cobra.Command{
		Use:   "import <file>...",
		Short: "Store the runs of history files",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := openApp(settings.Settings)
			if err != nil {
				return err
			}
			defer a.Close()

			for _, path := range args {
				f, err := history.Load(path)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				j, n, err := a.jobService.ImportHistory(cmd.Context(), f)
				if err != nil {
					return fmt.Errorf("%s: %w", path, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "imported %d runs into %s\n", n, j.Name)
			}
			return nil
		},
	}

	cmd.AddCommand(export, imp)
	return cmd
}
