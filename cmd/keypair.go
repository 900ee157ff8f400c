package cmd

import (
	"github.com/spf13/cobra"
)

var keypairCmd = &cobra.Command{
	Use:   "keypair",
	Short: "Manage local ECDSA P-256 keypairs",
	Long: `Generate and manage the ECDSA P-256 keypairs used for signing client
secrets in environments without a provider-issued key.

Examples:
  secrotate keypair generate
  secrotate keypair generate --key-id staging --output ./keys`,
}

func init() {
	rootCmd.AddCommand(keypairCmd)
}
