package domain

import (
	interfaces "ciphergate/internal/domain/interfaces"
	types "ciphergate/internal/domain/types"
)

// Type aliases expose domain types from the types subpackage for compact imports.
type (
	Fingerprint      = types.Fingerprint
	APIName          = types.APIName
	SessionKey       = types.SessionKey
	SessionState     = types.SessionState
	Envelope         = types.Envelope
	HandshakeRequest = types.HandshakeRequest
	HandshakeAck     = types.HandshakeAck
	Request          = types.Request
	Response         = types.Response
	APIRequest       = types.APIRequest
	Reply            = types.Reply
	StatusError      = types.StatusError
	AuthParams       = types.AuthParams
	AuthResult       = types.AuthResult
)

// Interface aliases expose domain interfaces from the interfaces subpackage.
type (
	SessionStorage = interfaces.SessionStorage
	KeyStore       = interfaces.KeyStore
	Transport      = interfaces.Transport
	Bootstrapper   = interfaces.Bootstrapper
	SessionService = interfaces.SessionService
	AuthService    = interfaces.AuthService
)

const (
	SessionKeySize          = types.SessionKeySize
	HandshakePath           = types.HandshakePath
	APIPathPrefix           = types.APIPathPrefix
	SessionKeyStorageKey    = types.SessionKeyStorageKey
	SessionCookieStorageKey = types.SessionCookieStorageKey
	HandshakeInfo           = types.HandshakeInfo
	HandshakeAckInfo        = types.HandshakeAckInfo
	InvalidSessionMarker    = types.InvalidSessionMarker
	StateUninitialized      = types.StateUninitialized
	StateEstablished        = types.StateEstablished
	AuthAPI                 = types.AuthAPI
	AuthInfoRequestData     = types.AuthInfoRequestData
	AuthInfoAuthorize       = types.AuthInfoAuthorize
	AuthInfoSignup          = types.AuthInfoSignup
	AuthInfoLogout          = types.AuthInfoLogout
	StatusSuccess           = types.StatusSuccess
)

// Sentinel errors, see types/errors.go.
var (
	ErrDecode             = types.ErrDecode
	ErrKeyFormat          = types.ErrKeyFormat
	ErrHandshake          = types.ErrHandshake
	ErrAuthentication     = types.ErrAuthentication
	ErrSessionInvalidated = types.ErrSessionInvalidated
	ErrProtocol           = types.ErrProtocol
	ErrTransport          = types.ErrTransport
)

// MustSessionKey copies b into a SessionKey, panicking on a length mismatch.
func MustSessionKey(b []byte) SessionKey { return types.MustSessionKey(b) }
