package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/keypair"
)

var (
	keypairGenerateOutput string
	keypairGenerateKeyID  string
)

var keypairGenerateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a new ECDSA P-256 keypair",
	Long: `Generate a new ECDSA P-256 keypair and save it as PEM files.

The private key is written with mode 0600, the public key with 0644. The
private key is PKCS#8, the same format as Apple's .p8 signing keys, so it
can be referenced directly from the config file's private_key_path.

Examples:
  secrotate keypair generate
  secrotate keypair generate --key-id staging
  secrotate keypair generate --output /etc/secrotate/keys`,
	RunE: runKeypairGenerate,
}

func init() {
	keypairCmd.AddCommand(keypairGenerateCmd)
	keypairGenerateCmd.Flags().StringVarP(&keypairGenerateOutput, "output", "o", "./keys", "Output directory")
	keypairGenerateCmd.Flags().StringVar(&keypairGenerateKeyID, "key-id", "", "Key id used in file names (auto-generated if empty)")
}

func runKeypairGenerate(cmd *cobra.Command, args []string) error {
	keyID := keypairGenerateKeyID
	if keyID == "" {
		keyID = fmt.Sprintf("key-%d", time.Now().Unix())
	}

	key, err := keypair.Generate()
	if err != nil {
		return err
	}

	if err := os.MkdirAll(keypairGenerateOutput, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	privatePath := filepath.Join(keypairGenerateOutput, keyID+"_private.pem")
	if err := keypair.SavePrivatePEM(privatePath, key); err != nil {
		return fmt.Errorf("failed to save private key: %w", err)
	}

	publicPath := filepath.Join(keypairGenerateOutput, keyID+"_public.pem")
	if err := keypair.SavePublicPEM(publicPath, key); err != nil {
		return fmt.Errorf("failed to save public key: %w", err)
	}

	fmt.Printf("Key ID: %s\n", keyID)
	fmt.Printf("Private key: %s\n", privatePath)
	fmt.Printf("Public key:  %s\n", publicPath)
	fmt.Println()
	fmt.Println("Store the private key securely and never commit it to version control.")

	return nil
}
