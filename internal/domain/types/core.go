package types

// Fingerprint is a short identifier for key material, safe to log or print.
type Fingerprint string

// String returns the string form of the fingerprint.
func (f Fingerprint) String() string { return string(f) }

// APIName selects the backend endpoint /api_<name> a request is sent to.
type APIName string

// String returns the string form of the API name.
func (n APIName) String() string { return string(n) }

// Path returns the backend path serving this API.
func (n APIName) Path() string { return APIPathPrefix + string(n) }

const (
	// HandshakePath is the endpoint accepting the asymmetric handshake.
	HandshakePath = "/api"
	// APIPathPrefix prefixes every encrypted API endpoint.
	APIPathPrefix = "/api_"

	// SessionKeyStorageKey names the encoded session key in session storage.
	SessionKeyStorageKey = "session_key"
	// SessionCookieStorageKey names the persisted backend session cookie.
	SessionCookieStorageKey = "session_cookie"
)
