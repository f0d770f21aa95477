package commands

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"ciphergate/internal/domain"
)

func authCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Account operations on the auth API",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "init",
			Short: "Show the backend authentication parameters",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				params, err := wire.Auth.Init(cmd.Context())
				if err != nil {
					return err
				}
				raw, err := json.Marshal(params)
				if err != nil {
					return err
				}
				return printJSON(cmd, raw, false)
			},
		},
		credentialsCmd("signup", "Register a new account", signup),
		credentialsCmd("authorize", "Log in", authorize),
		&cobra.Command{
			Use:   "logout",
			Short: "Log out of the current session",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, args []string) error {
				ok, err := wire.Auth.Logout(cmd.Context())
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("logout rejected")
				}
				fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
				return nil
			},
		},
	)
	return cmd
}

type credentialsFunc func(cmd *cobra.Command, username, password string) (domain.AuthResult, error)

func signup(cmd *cobra.Command, u, p string) (domain.AuthResult, error) {
	return wire.Auth.Signup(cmd.Context(), u, p)
}

func authorize(cmd *cobra.Command, u, p string) (domain.AuthResult, error) {
	return wire.Auth.Authorize(cmd.Context(), u, p)
}

// credentialsCmd builds "<use> <username> <password>".
func credentialsCmd(use, short string, run credentialsFunc) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <username> <password>",
		Short: short,
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := run(cmd, args[0], args[1])
			if err != nil {
				return err
			}
			if !res.Succeeded() {
				return fmt.Errorf("%s rejected: %s", use, res.Message)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, res.Message)
			if res.Token != "" {
				fmt.Fprintf(out, "Token: %s\n", res.Token)
			}
			return nil
		},
	}
}
