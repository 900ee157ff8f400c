package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/retention"
)

var (
	versionsCleanupKeep   int
	versionsCleanupDays   int
	versionsCleanupStrict bool
	versionsCleanupDryRun bool
	versionsCleanupForce  bool
)

var versionsCleanupCmd = &cobra.Command{
	Use:   "cleanup",
	Short: "Retire old rotation-history labels",
	Long: `Remove timestamp staging labels from old secret versions so the secret
stays under the 20-label limit.

The newest --keep labels are always retained. Labels younger than --days are
also retained, unless --strict is given, in which case only --keep counts.
AWSCURRENT, AWSPREVIOUS, and labels written by other tooling are never
touched. Versions left with no labels become unreachable and are eventually
garbage-collected by Secrets Manager.

Removals are independent: if one fails the rest are still attempted, and a
re-run converges on the remaining work.

Examples:
  secrotate versions cleanup --keep 5 --days 30
  secrotate versions cleanup --keep 5 --strict
  secrotate versions cleanup --keep 0 --strict --dry-run   # preview a full purge
  secrotate versions cleanup --keep 5 --force              # skip confirmation`,
	RunE: runVersionsCleanup,
}

func init() {
	versionsCmd.AddCommand(versionsCleanupCmd)
	versionsCleanupCmd.Flags().IntVar(&versionsCleanupKeep, "keep", 5, "Number of most recent history labels to retain")
	versionsCleanupCmd.Flags().IntVar(&versionsCleanupDays, "days", 0, "Retain labels younger than this many days (0 disables)")
	versionsCleanupCmd.Flags().BoolVar(&versionsCleanupStrict, "strict", false, "Clean by count alone, ignoring --days")
	versionsCleanupCmd.Flags().BoolVar(&versionsCleanupDryRun, "dry-run", false, "Show the plan without removing anything")
	versionsCleanupCmd.Flags().BoolVar(&versionsCleanupForce, "force", false, "Skip the confirmation prompt")
}

func runVersionsCleanup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	secretID, err := resolveSecretID(versionsSecretFlag, cfg)
	if err != nil {
		return err
	}

	policy := retention.Policy{
		KeepCount: versionsCleanupKeep,
		KeepDays:  versionsCleanupDays,
		Strict:    versionsCleanupStrict,
	}
	if err := policy.Validate(); err != nil {
		return fmt.Errorf("invalid retention policy: %w", err)
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	labels, err := store.LabelMap(cmd.Context(), secretID)
	if err != nil {
		return err
	}

	plan, err := retention.PlanCleanup(labels, policy, time.Now())
	if err != nil {
		return err
	}

	if plan.Empty() {
		fmt.Println("Nothing to clean up.")
		return nil
	}

	printPlan(plan)

	if versionsCleanupDryRun {
		fmt.Println()
		fmt.Println("Dry run: no labels were removed.")
		return nil
	}

	if !versionsCleanupForce && len(plan.Removals) > 0 {
		fmt.Println()
		if !confirm(fmt.Sprintf("Remove %d label(s) from %s?", len(plan.Removals), secretID)) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	results := retention.Execute(cmd.Context(), store, secretID, plan)

	var failed int
	for _, r := range results {
		if r.Err != nil {
			failed++
			fmt.Printf("FAILED  %s on %s: %v\n", r.Label, r.VersionID, r.Err)
		}
	}

	fmt.Println()
	fmt.Printf("Removed %d of %d label(s).\n", len(results)-failed, len(results))

	// Re-list so the summary reflects what the store actually holds now.
	after, err := store.LabelMap(cmd.Context(), secretID)
	if err != nil {
		return fmt.Errorf("cleanup applied, but re-listing versions failed: %w", err)
	}
	var remaining int
	for _, versionLabels := range after {
		remaining += len(versionLabels)
	}
	fmt.Printf("Labels now in use: %d.\n", remaining)

	if failed > 0 {
		return fmt.Errorf("cleanup finished with %d failure(s); re-run to retry", failed)
	}
	return nil
}

func printPlan(plan *retention.Plan) {
	if len(plan.Removals) > 0 {
		fmt.Printf("Labels to remove (%d):\n", len(plan.Removals))
		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "  LABEL\tVERSION ID")
		for _, r := range plan.Removals {
			fmt.Fprintf(w, "  %s\t%s\n", r.Label, r.VersionID)
		}
		w.Flush()
	}

	if len(plan.Unlabeled) > 0 {
		fmt.Printf("Versions becoming unreachable (%d):\n", len(plan.Unlabeled))
		for _, id := range plan.Unlabeled {
			fmt.Printf("  %s\n", id)
		}
	}
}
