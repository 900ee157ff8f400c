package cmd

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

var (
	configFlag string
	regionFlag string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:   "secrotate",
	Short: "secrotate - Rotate sign-in client secrets stored in Secrets Manager",
	Long: `secrotate rotates the OAuth client secrets used for Sign in with Apple
and Google Sign-In.

It generates the Apple client-secret JWT, encrypts secrets with KMS, stores
them as versions of a shared Secrets Manager secret, and keeps the secret's
staging labels under the 20-label limit by retiring old rotation history.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setupLogging()
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "Config file to use instead of .secrotaterc lookup")
	rootCmd.PersistentFlags().StringVar(&regionFlag, "region", "", "AWS region (overrides config)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging to stderr")
}

// setupLogging routes diagnostics to stderr so they never mix with command
// output on stdout.
func setupLogging() {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}
