package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/secrotate/cli/internal/token"
)

var inspectFormat string

var inspectCmd = &cobra.Command{
	Use:   "inspect <jwt>",
	Short: "Inspect a client-secret JWT and show its claims",
	Long: `Decode and display the claims of a client-secret JWT without validating it.

This is useful for:
  - Checking when a stored Apple client secret expires
  - Verifying team id, client id, and audience before uploading
  - Debugging a secret rejected by the identity provider

The signature is NOT verified - this only decodes the payload.

Examples:
  secrotate inspect eyJhbGciOiJFUzI1NiIsInR5cCI6IkpXVCJ9...
  secrotate inspect <jwt> --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runInspect,
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().StringVar(&inspectFormat, "format", "table", "Output format (table|json)")
}

func runInspect(cmd *cobra.Command, args []string) error {
	raw := args[0]
	if raw == "" {
		return fmt.Errorf("token cannot be empty")
	}

	claims, err := token.DecodeClaims(raw)
	if err != nil {
		return err
	}

	if inspectFormat == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(claims)
	}

	fmt.Println("Client secret claims:")
	fmt.Printf("  Issuer (team):    %s\n", orDash(claims.Issuer))
	fmt.Printf("  Subject (client): %s\n", orDash(claims.Subject))
	fmt.Printf("  Audience:         %s\n", orDash(strings.Join(claims.Audience, ", ")))
	fmt.Printf("  JWT ID:           %s\n", orDash(claims.ID))

	if claims.IssuedAt > 0 {
		fmt.Printf("  Issued:           %s\n", formatDate(claims.IssuedTime()))
	}

	if claims.Expiry > 0 {
		fmt.Printf("  Expires:          %s", formatDate(claims.ExpiryTime()))
		if claims.IsExpired() {
			fmt.Print("  (EXPIRED)")
		} else {
			fmt.Printf("  (in %s)", claims.ExpiresIn().Round(time.Second))
		}
		fmt.Println()
	}

	return nil
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
