package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/retention"
	"github.com/secrotate/cli/internal/secretstore"
)

var versionsCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Show staging label usage against the 20-label limit",
	Long: `Count the staging labels attached across all versions of the secret.

Secrets Manager rejects new labels once a secret carries 20 of them, which
silently breaks rotation. Run this to see how close the secret is to the cap
and whether a cleanup is due.

Examples:
  secrotate versions count
  secrotate versions count --secret shared/sign-in`,
	RunE: runVersionsCount,
}

func init() {
	versionsCmd.AddCommand(versionsCountCmd)
}

func runVersionsCount(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	secretID, err := resolveSecretID(versionsSecretFlag, cfg)
	if err != nil {
		return err
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	versions, err := store.ListVersions(cmd.Context(), secretID)
	if err != nil {
		return err
	}

	usage := countLabelUsage(versions)

	fmt.Printf("Secret: %s\n", secretID)
	fmt.Printf("Versions:           %d (%d unlabeled)\n", usage.versions, usage.unlabeled)
	fmt.Printf("Labels in use:      %d of %d\n", usage.total, secretstore.MaxLabelsPerSecret)
	fmt.Printf("  reserved:         %d\n", usage.reserved)
	fmt.Printf("  rotation history: %d\n", usage.history)
	fmt.Printf("  foreign:          %d\n", usage.foreign)

	switch remaining := usage.remaining(); {
	case remaining <= 0:
		fmt.Println()
		fmt.Println("The label limit is exhausted. The next rotation will fail.")
		fmt.Println("Run 'secrotate versions cleanup' to retire old rotation history.")
	case remaining <= 5:
		fmt.Println()
		fmt.Printf("Only %d labels left before the limit. Consider running a cleanup.\n", remaining)
	}

	return nil
}

// labelUsage summarizes how a secret's versions consume the staging label
// quota.
type labelUsage struct {
	versions  int
	unlabeled int
	total     int
	reserved  int
	history   int
	foreign   int
}

// remaining is the number of labels still available under the cap. It can
// go negative if a secret was filled by other tooling.
func (u labelUsage) remaining() int {
	return secretstore.MaxLabelsPerSecret - u.total
}

func countLabelUsage(versions []secretstore.Version) labelUsage {
	usage := labelUsage{versions: len(versions)}
	for _, v := range versions {
		if len(v.Labels) == 0 {
			usage.unlabeled++
		}
		for _, l := range v.Labels {
			usage.total++
			switch {
			case retention.IsReserved(l):
				usage.reserved++
			case retention.IsTimestamp(l):
				usage.history++
			default:
				usage.foreign++
			}
		}
	}
	return usage
}
