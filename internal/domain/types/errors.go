package types

import (
	"errors"
	"strconv"
)

var (
	// ErrDecode is returned for malformed transport text.
	ErrDecode = errors.New("malformed transport encoding")
	// ErrKeyFormat is returned for unusable key material.
	ErrKeyFormat = errors.New("invalid key format")
	// ErrHandshake is returned when no verified session key could be established.
	ErrHandshake = errors.New("handshake failed")
	// ErrAuthentication is returned when a symmetric integrity check fails.
	ErrAuthentication = errors.New("message authentication failed")
	// ErrSessionInvalidated is returned after the backend rejected the session.
	ErrSessionInvalidated = errors.New("session invalidated by backend")
	// ErrProtocol is returned when a decrypted payload has an unexpected shape.
	ErrProtocol = errors.New("protocol error")
	// ErrTransport is returned for network-level failures.
	ErrTransport = errors.New("transport error")
)

// StatusError reports a non-2xx backend reply that carried no usable body.
type StatusError struct {
	Path string
	Code int
	Body string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return "backend " + e.Path + ": status " + strconv.Itoa(e.Code)
	}
	return "backend " + e.Path + ": status " + strconv.Itoa(e.Code) + ": " + e.Body
}

// Unwrap classifies a StatusError as a transport failure.
func (e *StatusError) Unwrap() error { return ErrTransport }
