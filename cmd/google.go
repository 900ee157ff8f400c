package cmd

import (
	"github.com/spf13/cobra"
)

var googleCmd = &cobra.Command{
	Use:   "google",
	Short: "Rotate the Google Sign-In client secret",
	Long: `Commands for rotating the Google Sign-In client secret.

Unlike Apple, Google issues the client secret itself: rotation starts in the
Google Cloud console, where a new secret is generated for the OAuth client.
This tool then encrypts the issued secret and stores it next to the Apple
one in the shared secret document.

Examples:
  secrotate google secret`,
}

func init() {
	rootCmd.AddCommand(googleCmd)
}
