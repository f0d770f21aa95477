package transport

import (
	"context"
	"net/http"
	"net/url"

	"github.com/rs/zerolog"

	"ciphergate/internal/domain"
)

// SessionCookieName is the cookie the backend binds the session key to.
const SessionCookieName = "session_id"

// StorageJar is an http.CookieJar that keeps the backend session cookie in
// session storage, next to the session key, so both survive restarts and
// both are dropped together when the storage is cleared.
type StorageJar struct {
	storage domain.SessionStorage
	name    string
	log     zerolog.Logger
}

// NewStorageJar returns a jar persisting the cookie called name.
func NewStorageJar(storage domain.SessionStorage, name string, log zerolog.Logger) *StorageJar {
	return &StorageJar{storage: storage, name: name, log: log}
}

// SetCookies records or removes the session cookie. Other cookies are ignored.
func (j *StorageJar) SetCookies(_ *url.URL, cookies []*http.Cookie) {
	ctx := context.Background()
	for _, c := range cookies {
		if c.Name != j.name {
			continue
		}
		var err error
		if c.Value == "" || c.MaxAge < 0 {
			err = j.storage.Delete(ctx, domain.SessionCookieStorageKey)
		} else {
			err = j.storage.Set(ctx, domain.SessionCookieStorageKey, c.Value)
		}
		if err != nil {
			j.log.Warn().Err(err).Msg("persist session cookie")
		}
	}
}

// Cookies returns the stored session cookie, if any.
func (j *StorageJar) Cookies(_ *url.URL) []*http.Cookie {
	v, ok, err := j.storage.Get(context.Background(), domain.SessionCookieStorageKey)
	if err != nil {
		j.log.Warn().Err(err).Msg("load session cookie")
		return nil
	}
	if !ok {
		return nil
	}
	return []*http.Cookie{{Name: j.name, Value: v}}
}

var _ http.CookieJar = (*StorageJar)(nil)
