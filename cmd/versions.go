package cmd

import (
	"github.com/spf13/cobra"
)

var versionsSecretFlag string

var versionsCmd = &cobra.Command{
	Use:   "versions",
	Short: "Manage versions and staging labels of the shared secret",
	Long: `Commands for inspecting and cleaning up the versions of the shared
Secrets Manager secret.

Every rotation stores a new version of the secret and tags it with a
timestamp staging label (` + "`YYYYMMDD_HHMMSS`" + `) so old values stay reachable
for rollback. Secrets Manager allows at most 20 staging labels across all
versions of one secret, so rotation history has to be retired over time.

Label kinds:
  AWSCURRENT / AWSPREVIOUS - managed by Secrets Manager, never touched
  20240315_142500          - rotation history written by this tool
  anything else            - foreign labels owned by other tooling, never touched

A version whose last label is removed becomes unreachable and is eventually
garbage-collected by Secrets Manager.

Examples:
  secrotate versions list                      # Show all versions and labels
  secrotate versions count                     # Label usage vs the 20-label cap
  secrotate versions cleanup --keep 5 --days 30
  secrotate versions cleanup --keep 5 --strict --dry-run`,
}

func init() {
	rootCmd.AddCommand(versionsCmd)
	versionsCmd.PersistentFlags().StringVar(&versionsSecretFlag, "secret", "", "Secret id or ARN (overrides config)")
}
