package types

import "encoding/json"

// Envelope is the output of one symmetric encryption. Both fields are
// transport-encoded (base64). The GCM tag is appended to the ciphertext.
type Envelope struct {
	Nonce      string `json:"nonce"`
	Ciphertext string `json:"ciphertext"`
}

// HandshakeRequest is encrypted under the backend's public key and carries
// the freshly minted session key.
type HandshakeRequest struct {
	Info string `json:"info"`
	Key  string `json:"key"`
}

// HandshakeInfo tags a HandshakeRequest.
const HandshakeInfo = "init_com"

// HandshakeAck is the decrypted backend answer to a HandshakeRequest.
type HandshakeAck struct {
	Info    string `json:"info"`
	Session string `json:"session,omitempty"`
}

// HandshakeAckInfo is the Info value of a successful HandshakeAck.
const HandshakeAckInfo = "com_ok"

// Request is the JSON body posted to the backend. Data is the RSA ciphertext
// string for the handshake and an Envelope for every other call.
type Request struct {
	Data any `json:"data"`
}

// Response is the union of what the backend may answer: an Envelope, or a
// plaintext error marker.
type Response struct {
	Nonce      *string `json:"nonce,omitempty"`
	Ciphertext *string `json:"ciphertext,omitempty"`
	Error      *string `json:"error,omitempty"`
}

// InvalidSessionMarker is the Response.Error value meaning the backend no
// longer knows the session.
const InvalidSessionMarker = "invalid_session"

// Envelope returns the envelope carried by r, if complete.
func (r Response) Envelope() (Envelope, bool) {
	if r.Nonce == nil || r.Ciphertext == nil {
		return Envelope{}, false
	}
	return Envelope{Nonce: *r.Nonce, Ciphertext: *r.Ciphertext}, true
}

// InvalidSession reports whether r carries the invalid-session marker.
func (r Response) InvalidSession() bool {
	return r.Error != nil && *r.Error == InvalidSessionMarker
}

// APIRequest is an application payload: an operation tag plus free fields.
// Fields are flattened next to "info" on the wire.
type APIRequest struct {
	Info   string
	Fields map[string]any
}

// MarshalJSON flattens Fields next to the info tag.
func (r APIRequest) MarshalJSON() ([]byte, error) {
	m := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		m[k] = v
	}
	m["info"] = r.Info
	return json.Marshal(m)
}
