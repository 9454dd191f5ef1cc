package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/haatos/simple-ci-metrics/internal/settings"
	"github.com/spf13/cobra"
)

func newAPIKeyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage the API keys producers push build history with",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "create <producer>",
			Short: "Issue an API key to a producer and print it",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(settings.Settings)
				if err != nil {
					return err
				}
				defer a.Close()

				ak, err := a.apiKeyService.CreateAPIKey(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				_, err = fmt.Fprintln(cmd.OutOrStdout(), ak.Value)
				return err
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List API keys",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				a, err := openApp(settings.Settings)
				if err != nil {
					return err
				}
				defer a.Close()

				keys, err := a.apiKeyService.ListAPIKeys(cmd.Context())
				if err != nil {
					return err
				}
				tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				fmt.Fprintln(tw, "ID\tPRODUCER\tKEY\tCREATED\tLAST USED")
				for _, ak := range keys {
					lastUsed := "never"
					if ak.LastUsedOn != nil {
						lastUsed = humanize.Time(ak.LastUsedOn.Time)
					}
					fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
						ak.ID, ak.Producer, ak.Value, humanize.Time(ak.CreatedOn.Time), lastUsed)
				}
				return tw.Flush()
			},
		},
	)
	return cmd
}
