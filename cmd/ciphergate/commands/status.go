package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"ciphergate/internal/crypto"
)

func statusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the local session state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			key, ok, err := wire.Keys.GetKey(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Backend: %s\nStorage: %s (profile %s)\n", cfg.BaseURL, cfg.Storage, cfg.Profile)
			if !ok {
				fmt.Fprintln(out, "Session: none")
				return nil
			}
			fmt.Fprintf(out, "Session: stored\nKey fingerprint: %s\n", crypto.KeyFingerprint(key))
			return nil
		},
	}
}
