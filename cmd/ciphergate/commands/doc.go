// Package commands defines the ciphergate CLI and wires dependencies for subcommands.
//
// Commands
//
//   - handshake      Establish a session with the backend (no-op when one exists)
//   - call           Send an encrypted JSON payload to /api_<name>
//   - auth           init, signup, authorize and logout against the auth API
//   - status         Show the local session state
//   - forget         Drop the session key and cookie
//
// # Implementation
//
// The root command reads the TOML config, applies flag overrides and builds
// the dependency graph (storage, key store, transport, services) before any
// subcommand runs. The session key and cookie live in the configured
// storage, so consecutive invocations reuse one session.
package commands
