package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/retention"
	"github.com/secrotate/cli/internal/token"
)

var (
	appleSecretSecretFlag string
	appleSecretDryRun     bool
)

var appleSecretCmd = &cobra.Command{
	Use:   "secret",
	Short: "Generate and store a new Apple client secret",
	Long: `Generate a new Sign in with Apple client-secret JWT, encrypt it with the
configured KMS key, and store it in the shared secret under the
apple_client_secret key. Other keys in the secret document are preserved.

The new version is tagged with a timestamp staging label and becomes
AWSCURRENT; Secrets Manager moves AWSPREVIOUS to the prior version.

Team id, client id, key id, and the private key path come from the config
file; anything missing is prompted for.

Examples:
  secrotate apple secret
  secrotate apple secret --dry-run
  secrotate apple secret --secret shared/sign-in`,
	RunE: runAppleSecret,
}

func init() {
	appleCmd.AddCommand(appleSecretCmd)
	appleSecretCmd.Flags().StringVar(&appleSecretSecretFlag, "secret", "", "Secret id or ARN (overrides config)")
	appleSecretCmd.Flags().BoolVar(&appleSecretDryRun, "dry-run", false, "Print the generated JWT without encrypting or storing it")
}

func runAppleSecret(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	teamID, err := promptFor("Apple team ID", cfg.Apple.TeamID)
	if err != nil {
		return err
	}
	clientID, err := promptFor("Services ID (client id)", cfg.Apple.ClientID)
	if err != nil {
		return err
	}
	keyID, err := promptFor("Apple key ID", cfg.Apple.KeyID)
	if err != nil {
		return err
	}
	keyPath, err := promptFor("Private key path (.p8)", cfg.Apple.PrivateKeyPath)
	if err != nil {
		return err
	}

	ttlDays := cfg.Apple.TTLDays
	if ttlDays <= 0 {
		ttlDays = 90
	}

	request := token.AppleSecret{
		TeamID:   teamID,
		ClientID: clientID,
		KeyID:    keyID,
		TTL:      time.Duration(ttlDays) * 24 * time.Hour,
	}

	key, err := token.LoadPrivateKey(keyPath)
	if err != nil {
		return err
	}

	now := time.Now()
	secret, err := request.Sign(key, now)
	if err != nil {
		return err
	}

	expiry := now.Add(request.TTL)
	fmt.Printf("Generated client secret for %s (expires %s).\n", clientID, expiry.Format("2006-01-02"))

	if appleSecretDryRun {
		fmt.Println()
		fmt.Println(secret)
		fmt.Println()
		fmt.Println("Dry run: nothing was encrypted or stored.")
		return nil
	}

	secretID, err := resolveSecretID(appleSecretSecretFlag, cfg)
	if err != nil {
		return err
	}

	encryptor, err := newEncryptor(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	ciphertext, err := encryptor.Encrypt(cmd.Context(), secret, appleSecretKey)
	if err != nil {
		return err
	}

	store, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return err
	}

	label := retention.TimestampLabel(now)
	versionID, err := store.PutKey(cmd.Context(), secretID, appleSecretKey, ciphertext, label)
	if err != nil {
		return err
	}

	fmt.Printf("Stored new version %s of %s.\n", versionID, secretID)
	fmt.Printf("  Staging label: %s\n", label)
	fmt.Println()
	fmt.Println("Remember to schedule the next rotation before the secret expires.")
	fmt.Println("Run 'secrotate versions count' to check staging label usage.")

	return nil
}
