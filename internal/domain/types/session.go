package types

// SessionState is the establishment state of the client session.
type SessionState int

const (
	// StateUninitialized means no session key is known.
	StateUninitialized SessionState = iota
	// StateEstablished means a persisted session key is in use.
	StateEstablished
)

// String implements fmt.Stringer.
func (s SessionState) String() string {
	switch s {
	case StateEstablished:
		return "established"
	default:
		return "uninitialized"
	}
}
