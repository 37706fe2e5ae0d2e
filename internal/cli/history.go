package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List past interviews with ratings and feedback",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		items, err := client.History.List(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), renderHistory(items))
		return nil
	},
}

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Check whether the interview backend is reachable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()
		health, err := client.Health(cmd.Context())
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", health.Status, health.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(statusCmd)
}
