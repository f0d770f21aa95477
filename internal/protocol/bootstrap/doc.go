// Package bootstrap implements the one-time handshake that establishes the
// session key.
//
// The client mints a random AES-256 key, wraps {"info":"init_com","key":...}
// with RSA-OAEP/SHA-256 under the backend's fixed public key and posts it to
// /api. The backend answers with an envelope sealed under the new key; a
// successful decryption to {"info":"com_ok"} confirms that the backend holds
// the same key. Only then is the key handed back to the caller.
//
// A failed handshake wipes the key and reports domain.ErrHandshake wrapping
// the cause; nothing is persisted here.
package bootstrap
