package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/retention"
	"github.com/secrotate/cli/internal/secretstore"
)

var versionsListFormat string

var versionsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all versions of the secret with their staging labels",
	Long: `List every version of the shared secret, including deprecated versions
that no longer carry any label.

Examples:
  secrotate versions list
  secrotate versions list --format json
  secrotate versions list --secret shared/sign-in`,
	RunE: runVersionsList,
}

func init() {
	versionsCmd.AddCommand(versionsListCmd)
	versionsListCmd.Flags().StringVar(&versionsListFormat, "format", "table", "Output format (table|json)")
}

// versionListing is the JSON shape for --format json.
type versionListing struct {
	VersionID string    `json:"versionId"`
	Labels    []string  `json:"labels"`
	Created   time.Time `json:"created"`
	Kind      string    `json:"kind"`
}

func runVersionsList(cmd *cobra.Command, args []string) error {
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

	if versionsListFormat == "json" {
		listings := make([]versionListing, 0, len(versions))
		for _, v := range versions {
			listings = append(listings, versionListing{
				VersionID: v.ID,
				Labels:    v.Labels,
				Created:   v.Created,
				Kind:      classifyVersion(v),
			})
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(listings)
	}

	if len(versions) == 0 {
		fmt.Println("No versions found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "VERSION ID\tKIND\tCREATED\tLABELS")
	fmt.Fprintln(w, "----------\t----\t-------\t------")

	for _, v := range versions {
		labels := strings.Join(v.Labels, ", ")
		if labels == "" {
			labels = "(none)"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", v.ID, classifyVersion(v), formatDate(v.Created), labels)
	}
	w.Flush()

	return nil
}

// classifyVersion summarizes what kind of labels a version carries, for
// display only.
func classifyVersion(v secretstore.Version) string {
	if len(v.Labels) == 0 {
		return "unlabeled"
	}
	for _, l := range v.Labels {
		if retention.IsReserved(l) {
			return "reserved"
		}
	}
	for _, l := range v.Labels {
		if retention.IsTimestamp(l) {
			return "history"
		}
	}
	return "foreign"
}
