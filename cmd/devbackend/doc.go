// Package main runs the in-memory development backend for ciphergate. It
// speaks the handshake protocol on /api and serves two encrypted APIs:
//
//	POST /api_auth   signup, authorize (bcrypt passwords, HS256 JWT tokens),
//	                 logout and the auth_params data request
//	POST /api_echo   returns the decrypted request unchanged
//
// Behaviour
//
//   - The RSA key pair is read from --key, or generated on first start and
//     written next to it (--pub, default server_public.pem) for clients.
//   - All sessions and accounts are held in memory and lost on exit.
//   - A lightweight access log records method, path, status, bytes and
//     duration for each request.
//   - The default listen address is :8080.
package main
