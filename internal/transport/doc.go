// Package transport provides the HTTP implementation of domain.Transport
// used by ciphergate to reach the backend.
//
// The transport is an opaque channel: it posts a JSON body and hands back
// the status code and raw body. Deciding whether a reply is an encrypted
// envelope, a session-invalidation marker or a failure belongs to the
// session service. Network failures are wrapped in domain.ErrTransport.
//
// Every request carries an X-Request-ID header. StorageJar keeps the
// backend's session_id cookie in the same session storage as the key.
//
// Timeouts are the http.Client's business; context cancellation is honoured.
package transport
