package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// guestToken is the backend's development bypass for sessions without a
// real identity provider token.
const guestToken = "guest-token"

var (
	flagGuest      bool
	flagLoginToken string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Store credentials for the interview backend",
	Long: `Store the bearer token used on every backend request.

Pass --token with an identity provider token, or --guest to use the
backend's guest mode.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		token := flagLoginToken
		if flagGuest {
			if token != "" {
				return errors.New("--guest and --token are mutually exclusive")
			}
			token = guestToken
		}
		if token == "" {
			return errors.New("either --token or --guest is required")
		}
		if err := SaveToken(cfg.CredentialsFile, token); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Logged in. Credentials saved to %s\n", cfg.CredentialsFile)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove stored credentials",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := ClearToken(cfg.CredentialsFile); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
		return nil
	},
}

func init() {
	loginCmd.Flags().BoolVar(&flagGuest, "guest", false, "log in as a guest")
	loginCmd.Flags().StringVar(&flagLoginToken, "token", "", "identity provider token")
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
}
