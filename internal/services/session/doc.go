// Package session implements the encrypted request/response protocol.
//
// A Service is either Uninitialized (no session key known) or Established.
// The first call on an Uninitialized service runs the handshake; concurrent
// first calls share that single handshake through a singleflight group, so
// one client context never mints two competing keys. Every call then
// re-persists the key, seals the payload into an envelope, posts it to
// /api_<name> and opens the reply under the same key.
//
// A plaintext {"error":"invalid_session"} reply clears the key store and
// returns domain.ErrSessionInvalidated; the next call handshakes again. All
// other failures leave the session untouched so the caller may retry.
package session
