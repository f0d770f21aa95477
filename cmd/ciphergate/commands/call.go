package commands

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ciphergate/internal/domain"
)

// call <api> <json>: encrypt json, send it to /api_<api>, print the result.
func callCmd() *cobra.Command {
	var compact bool
	cmd := &cobra.Command{
		Use:   "call <api> <json>",
		Short: "Send an encrypted JSON payload to an API",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			payload := json.RawMessage(args[1])
			if !json.Valid(payload) {
				return fmt.Errorf("payload is not valid JSON")
			}
			out, err := wire.Session.Call(cmd.Context(), domain.APIName(args[0]), payload)
			if err != nil {
				return err
			}
			return printJSON(cmd, out, compact)
		},
	}
	cmd.Flags().BoolVar(&compact, "compact", false, "print the result on one line")
	return cmd
}

func printJSON(cmd *cobra.Command, raw json.RawMessage, compact bool) error {
	var buf bytes.Buffer
	var err error
	if compact {
		err = json.Compact(&buf, raw)
	} else {
		err = json.Indent(&buf, raw, "", "  ")
	}
	if err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}
