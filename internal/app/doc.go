// Package app wires application dependencies for the CLI.
//
// Config is read from $HOME/.ciphergate/config.toml (missing file means
// defaults) and overridden by flags. NewWire turns it into the concrete
// session storage, key store, HTTP transport with its persisted cookie jar,
// handshake bootstrapper and the session and auth services.
package app
