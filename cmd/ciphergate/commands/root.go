package commands

import (
	"context"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ciphergate/internal/app"
	"ciphergate/internal/logging"
)

var (
	home       string
	configPath string
	baseURL    string
	storage    string
	profile    string
	passphrase string
	logLevel   string

	cfg  app.Config
	wire *app.Wire
	log  zerolog.Logger
)

// Execute runs the CLI with ctx as the base context of every command.
func Execute(ctx context.Context) error {
	return newRootCmd().ExecuteContext(ctx)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "ciphergate",
		Short:         "Encrypted session client for hybrid-encryption APIs",
		SilenceUsage:  true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if home == "" {
				dir, err := app.DefaultHome()
				if err != nil {
					return err
				}
				home = dir
			}
			if configPath == "" {
				configPath = app.DefaultConfigPath(home)
			}

			loaded, err := app.LoadConfig(configPath, app.DefaultConfig(home))
			if err != nil {
				return err
			}
			flags := cmd.Flags()
			if flags.Changed("url") {
				loaded.BaseURL = baseURL
			}
			if flags.Changed("storage") {
				loaded.Storage = storage
			}
			if flags.Changed("profile") {
				loaded.Profile = profile
			}
			if flags.Changed("passphrase") {
				loaded.Passphrase = passphrase
			}
			if flags.Changed("log-level") {
				loaded.LogLevel = logLevel
			}
			cfg = loaded

			log = logging.New(cmd.ErrOrStderr(), "ciphergate", cfg.LogLevel)
			w, err := app.NewWire(cfg, log)
			if err != nil {
				return err
			}
			wire = w
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if wire == nil {
				return nil
			}
			return wire.Close()
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&home, "home", os.Getenv("CIPHERGATE_HOME"), "state dir (default ~/.ciphergate)")
	pf.StringVar(&configPath, "config", "", "config file (default <home>/config.toml)")
	pf.StringVar(&baseURL, "url", "", "backend base URL (e.g. http://127.0.0.1:8080)")
	pf.StringVar(&storage, "storage", "", "session storage: file, memory or redis")
	pf.StringVar(&profile, "profile", "", "storage profile name")
	pf.StringVarP(&passphrase, "passphrase", "p", "", "passphrase sealing file storage")
	pf.StringVar(&logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")

	root.AddCommand(handshakeCmd(), callCmd(), authCmd(), statusCmd(), forgetCmd())
	return root
}
