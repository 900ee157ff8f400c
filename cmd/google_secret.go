package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/retention"
)

var (
	googleSecretSecretFlag string
	googleSecretDryRun     bool
)

var googleSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Encrypt and store a console-issued Google client secret",
	Long: `Store a new Google Sign-In client secret in the shared secret.

Generate the secret for the OAuth client in the Google Cloud console first,
then paste it here. It is encrypted with the configured KMS key and written
under the google_client_secret key; other keys in the secret document are
preserved. The new version is tagged with a timestamp staging label and
becomes AWSCURRENT.

Examples:
  secrotate google secret
  secrotate google secret --secret shared/sign-in`,
	RunE: runGoogleSecret,
}

func init() {
	googleCmd.AddCommand(googleSecretCmd)
	googleSecretCmd.Flags().StringVar(&googleSecretSecretFlag, "secret", "", "Secret id or ARN (overrides config)")
	googleSecretCmd.Flags().BoolVar(&googleSecretDryRun, "dry-run", false, "Validate input without encrypting or storing it")
}

func runGoogleSecret(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	clientID, err := promptFor("Google OAuth client ID", cfg.Google.ClientID)
	if err != nil {
		return err
	}

	value, err := promptFor("New client secret (from the Cloud console)", "")
	if err != nil {
		return err
	}

	fmt.Printf("Storing new client secret for %s.\n", clientID)

	if googleSecretDryRun {
		fmt.Println("Dry run: nothing was encrypted or stored.")
		return nil
	}

	secretID, err := resolveSecretID(googleSecretSecretFlag, cfg)
	if err != nil {
		return err
	}

	encryptor, err := newEncryptor(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	ciphertext, err := encryptor.Encrypt(cmd.Context(), value, googleSecretKey)
	if err != nil {
		return err
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	label := retention.TimestampLabel(time.Now())
	versionID, err := store.PutKey(cmd.Context(), secretID, googleSecretKey, ciphertext, label)
	if err != nil {
		return err
	}

	fmt.Printf("Stored new version %s of %s.\n", versionID, secretID)
	fmt.Printf("  Staging label: %s\n", label)
	fmt.Println()
	fmt.Println("Disable the old secret in the Cloud console once all consumers have picked up the new one.")

	return nil
}
