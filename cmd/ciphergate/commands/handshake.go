package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

func handshakeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "handshake",
		Short: "Establish a session with the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			fp, err := wire.Session.Establish(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Session established.\nKey fingerprint: %s\n", fp)
			return nil
		},
	}
}
