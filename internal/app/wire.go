package app

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
	"ciphergate/internal/protocol/bootstrap"
	authsvc "ciphergate/internal/services/auth"
	sessionsvc "ciphergate/internal/services/session"
	"ciphergate/internal/store"
	"ciphergate/internal/transport"
)

const redisPingTimeout = 5 * time.Second

// Wire bundles the storage, services and transport for the CLI.
type Wire struct {
	Storage domain.SessionStorage
	Keys    domain.KeyStore
	Session domain.SessionService
	Auth    domain.AuthService
	HTTP    *http.Client

	closers []func() error
}

// NewWire constructs the dependency graph from cfg. The backend public key
// is loaded here, once.
func NewWire(cfg Config, log zerolog.Logger) (*Wire, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	pemText, err := cfg.LoadPublicKeyPEM()
	if err != nil {
		return nil, err
	}
	pub, err := crypto.LoadPublicKey(pemText)
	if err != nil {
		return nil, err
	}

	w := &Wire{}
	storage, err := w.openStorage(cfg)
	if err != nil {
		return nil, err
	}
	w.Storage = storage
	w.Keys = store.NewKeyStore(storage)

	// The cookie jar shares the key's storage so both are cleared together.
	httpClient := &http.Client{}
	if cfg.HTTP != nil {
		clone := *cfg.HTTP
		httpClient = &clone
	}
	httpClient.Jar = transport.NewStorageJar(storage, transport.SessionCookieName, log)
	if cfg.HTTPTimeout > 0 {
		httpClient.Timeout = cfg.HTTPTimeout
	}
	w.HTTP = httpClient

	tr := transport.NewHTTP(cfg.BaseURL, httpClient, log)
	session := sessionsvc.New(w.Keys, bootstrap.New(pub, tr, log), tr, log)
	w.Session = session
	w.Auth = authsvc.New(session, log)

	log.Debug().
		Str("url", cfg.BaseURL).
		Str("storage", cfg.Storage).
		Str("profile", cfg.Profile).
		Str("server_key", crypto.Fingerprint(pub.N.Bytes()).String()).
		Msg("wired")
	return w, nil
}

func (w *Wire) openStorage(cfg Config) (domain.SessionStorage, error) {
	switch cfg.Storage {
	case StorageMemory:
		return store.NewMemoryStorage(), nil
	case StorageFile:
		if err := os.MkdirAll(cfg.Home, 0o700); err != nil {
			return nil, fmt.Errorf("create home: %w", err)
		}
		return store.NewFileStorage(cfg.Home, cfg.Profile, cfg.Passphrase), nil
	case StorageRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		timeout := cfg.HTTPTimeout
		if timeout <= 0 {
			timeout = redisPingTimeout
		}
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("%w: ping %s: %v", store.ErrRedisUnavailable, cfg.RedisAddr, err)
		}
		w.closers = append(w.closers, client.Close)
		return store.NewRedisStorage(client, cfg.Profile, cfg.SessionTTL), nil
	default:
		return nil, fmt.Errorf("config storage: unknown backend %q", cfg.Storage)
	}
}

// Close releases external connections.
func (w *Wire) Close() error {
	var first error
	for _, c := range w.closers {
		if err := c(); err != nil && first == nil {
			first = err
		}
	}
	w.closers = nil
	return first
}
