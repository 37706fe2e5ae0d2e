package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var uploadCmd = &cobra.Command{
	Use:   "upload <resume.pdf>",
	Short: "Upload a resume to seed interview questions",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("read %s: %w", path, err)
		}

		client := newClient()
		ack, err := client.Resumes.Upload(cmd.Context(), path, data)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), ack.Message)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(uploadCmd)
}
