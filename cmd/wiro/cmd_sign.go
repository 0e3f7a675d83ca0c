package main

import (
	"github.com/spf13/cobra"

	"wirotask/internal/auth/signing"
)

// signCmd prints a freshly signed header set
var signCmd = &cobra.Command{
	Use:   "sign",
	Short: "Print signed request headers for the configured credentials",
	Long: `Prints the x-api-key, x-nonce and x-signature headers a request made now
would carry, plus the timestamp folded into the signature. Useful for
checking credentials with curl.`,
	Args: cobra.NoArgs,
	RunE: printSignature,
}

func printSignature(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	h := client.SignedHeaders()
	w := cmd.OutOrStdout()
	field(w, signing.HeaderAPIKey, h.APIKey)
	field(w, signing.HeaderNonce, h.Nonce)
	field(w, signing.HeaderSignature, h.Signature)
	field(w, "timestamp", h.Timestamp)
	return nil
}
