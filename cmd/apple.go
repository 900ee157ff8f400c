package cmd

import (
	"github.com/spf13/cobra"
)

var appleCmd = &cobra.Command{
	Use:   "apple",
	Short: "Rotate the Sign in with Apple client secret",
	Long: `Commands for rotating the Sign in with Apple client secret.

Apple does not issue client secrets: each one is an ES256 JWT you sign
yourself with the .p8 key from the developer portal, valid for at most six
months. Rotation means signing a fresh JWT before the old one expires.

Examples:
  secrotate apple secret                 # Generate, encrypt, and store
  secrotate apple secret --dry-run       # Print the JWT without storing it`,
}

func init() {
	rootCmd.AddCommand(appleCmd)
}
