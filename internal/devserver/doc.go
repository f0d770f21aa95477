// Package devserver is an in-memory backend for the ciphergate handshake
// protocol, used by cmd/devbackend during development and by tests.
//
// HTTP API
//
//	POST /api
//	    Body {"data": base64(RSA-OAEP({"info":"init_com","key":...}))}.
//	    Binds the key to the session_id cookie (minted if absent) and
//	    answers with an envelope encrypting {"info":"com_ok","session":id}.
//
//	POST /api_<name>
//	    Body {"data": {"nonce":...,"ciphertext":...}}. Unknown sessions get
//	    403 {"error":"invalid_session"} in plaintext; unknown APIs get an
//	    encrypted {"error":"unknown_api"} with status 404.
//
// All state is held in memory and lost on process exit. The server never
// logs key material, only fingerprints.
package devserver
