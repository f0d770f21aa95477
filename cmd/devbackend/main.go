package main

import (
	"context"
	"crypto/rand"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"ciphergate/internal/crypto"
	"ciphergate/internal/devserver"
	"ciphergate/internal/domain"
	"ciphergate/internal/logging"
)

// EnvAuthSecret supplies the JWT signing secret.
const EnvAuthSecret = "DEVBACKEND_AUTH_SECRET"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := rootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	var (
		addr     string
		keyPath  string
		pubPath  string
		bits     int
		authMode string
		logLevel string
	)
	cmd := &cobra.Command{
		Use:          "devbackend",
		Short:        "In-memory backend speaking the ciphergate protocol",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := logging.New(cmd.ErrOrStderr(), "devbackend", logLevel)

			priv, created, err := devserver.LoadOrCreateKey(keyPath, pubPath, bits)
			if err != nil {
				return err
			}
			if created {
				log.Info().Str("private", keyPath).Str("public", pubPath).Msg("generated server key pair")
			}
			log.Info().Str("server_key", crypto.Fingerprint(priv.PublicKey.N.Bytes()).String()).Msg("loaded server key")

			secret, err := authSecret()
			if err != nil {
				return err
			}
			backend := devserver.New(priv, log)
			backend.Handle(domain.AuthAPI, devserver.NewAuth(secret, authMode).Serve)
			backend.Handle("echo", devserver.Echo)

			return serve(cmd.Context(), addr, accessLog(log, backend), log)
		},
	}
	f := cmd.Flags()
	f.StringVar(&addr, "addr", ":8080", "listen address")
	f.StringVar(&keyPath, "key", "server_private.pem", "RSA private key (PKCS#8 PEM), created if missing")
	f.StringVar(&pubPath, "pub", "server_public.pem", "where to write the public key when generating")
	f.IntVar(&bits, "bits", 2048, "RSA modulus size when generating")
	f.StringVar(&authMode, "auth-mode", "password", "AUTH_MODE advertised by auth_params")
	f.StringVar(&logLevel, "log-level", "info", "log level")
	return cmd
}

func authSecret() ([]byte, error) {
	if v := os.Getenv(EnvAuthSecret); v != "" {
		return []byte(v), nil
	}
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return nil, err
	}
	return secret, nil
}

func serve(ctx context.Context, addr string, h http.Handler, log zerolog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("devbackend listening")
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	log.Info().Msg("devbackend stopped")
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
	bytes  int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func (r *statusRecorder) Write(b []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	n, err := r.ResponseWriter.Write(b)
	r.bytes += n
	return n, err
}

func accessLog(log zerolog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w}
		next.ServeHTTP(rec, r)

		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("request_id", reqID).
			Int("status", rec.status).
			Int("bytes", rec.bytes).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}
