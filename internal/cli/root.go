// Package cli implements the voxhire command tree.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	voxhire "github.com/voxhire/voxhire-go/sdk"

	"github.com/voxhire/voxhire-go/internal/config"
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var (
	cfg    *config.Config
	logger *slog.Logger

	flagBaseURL string
	flagTimeout time.Duration
)

var rootCmd = &cobra.Command{
	Use:   "voxhire",
	Short: "Voxhire - voice mock interviews from the terminal",
	Long: `Voxhire runs AI mock interviews over your microphone. Upload a resume,
start an interview, answer questions out loud, and get a rated evaluation
with improvement suggestions at the end.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		if flagBaseURL != "" {
			loaded.BaseURL = flagBaseURL
		}
		if flagTimeout > 0 {
			loaded.Timeout = flagTimeout
		}
		if err := loaded.Validate(); err != nil {
			return err
		}
		cfg = loaded
		logger = newLogger(cfg.LogLevel)
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voxhire %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBaseURL, "base-url", "", "backend base URL (overrides config)")
	rootCmd.PersistentFlags().DurationVar(&flagTimeout, "timeout", 0, "request timeout (overrides config)")
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func newLogger(level string) *slog.Logger {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelWarn
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
}

// newClient builds an SDK client from the loaded config and stored
// credentials.
func newClient() *voxhire.Client {
	return voxhire.NewClient(
		voxhire.WithBaseURL(cfg.BaseURL),
		voxhire.WithTimeout(cfg.Timeout),
		voxhire.WithLogger(logger),
		voxhire.WithTokenSource(&FileTokenSource{Path: cfg.CredentialsFile}),
		voxhire.WithUserAgent("voxhire-cli/"+appVersion),
	)
}
