package devserver

import (
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"ciphergate/internal/crypto"
	"ciphergate/internal/domain"
)

// Handler serves one API. It receives the decrypted request and returns
// the value to encrypt back plus an HTTP status.
type Handler func(sessionID string, req json.RawMessage) (any, int)

// Server is an in-memory backend speaking the handshake protocol. It
// holds the RSA private key and one session key per session cookie.
type Server struct {
	priv *rsa.PrivateKey
	log  zerolog.Logger

	mu       sync.Mutex
	sessions map[string]domain.SessionKey
	handlers map[domain.APIName]Handler
	hits     map[string]int
	last     map[domain.APIName]json.RawMessage
	tamper   bool
}

// New returns a Server decrypting handshakes with priv.
func New(priv *rsa.PrivateKey, log zerolog.Logger) *Server {
	return &Server{
		priv:     priv,
		log:      log.With().Str("component", "devserver").Logger(),
		sessions: make(map[string]domain.SessionKey),
		handlers: make(map[domain.APIName]Handler),
		hits:     make(map[string]int),
		last:     make(map[domain.APIName]json.RawMessage),
	}
}

// Handle registers h for /api_<api>.
func (s *Server) Handle(api domain.APIName, h Handler) {
	s.mu.Lock()
	s.handlers[api] = h
	s.mu.Unlock()
}

// Hits returns how many requests reached path.
func (s *Server) Hits(path string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[path]
}

// LastRequest returns the last decrypted request sent to api.
func (s *Server) LastRequest(api domain.APIName) (json.RawMessage, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	raw, ok := s.last[api]
	return raw, ok
}

// SessionKeys returns a copy of every known session key by session id.
func (s *Server) SessionKeys() map[string]domain.SessionKey {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]domain.SessionKey, len(s.sessions))
	for id, k := range s.sessions {
		out[id] = k
	}
	return out
}

// Seed registers key under a new session id and returns the id, as if a
// handshake had happened in an earlier process.
func (s *Server) Seed(key domain.SessionKey) string {
	id := uuid.NewString()
	s.mu.Lock()
	s.sessions[id] = key
	s.mu.Unlock()
	return id
}

// DropSessions forgets every session, so the next API call is answered
// with the invalid-session marker.
func (s *Server) DropSessions() {
	s.mu.Lock()
	s.sessions = make(map[string]domain.SessionKey)
	s.mu.Unlock()
}

// TamperNext corrupts one ciphertext byte of the next encrypted reply.
func (s *Server) TamperNext() {
	s.mu.Lock()
	s.tamper = true
	s.mu.Unlock()
}

// ServeHTTP routes /api to the handshake and /api_<name> to handlers.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody("method_not_allowed"))
		return
	}
	s.mu.Lock()
	s.hits[r.URL.Path]++
	s.mu.Unlock()

	body, err := io.ReadAll(io.LimitReader(r.Body, 1<<20))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request"))
		return
	}
	switch {
	case r.URL.Path == domain.HandshakePath:
		s.handshake(w, r, body)
	case strings.HasPrefix(r.URL.Path, domain.APIPathPrefix):
		s.api(w, r, domain.APIName(strings.TrimPrefix(r.URL.Path, domain.APIPathPrefix)), body)
	default:
		writeJSON(w, http.StatusNotFound, errorBody("not_found"))
	}
}

func (s *Server) handshake(w http.ResponseWriter, r *http.Request, body []byte) {
	var in struct {
		Data string `json:"data"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request"))
		return
	}
	req, err := s.unwrap(in.Data)
	if err != nil {
		s.log.Warn().Err(err).Msg("handshake rejected")
		writeJSON(w, http.StatusBadRequest, errorBody("bad_handshake"))
		return
	}
	raw, err := crypto.Decode(req.Key)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_handshake"))
		return
	}
	key, err := crypto.ImportSessionKey(raw)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_handshake"))
		return
	}

	// An existing cookie is rebound to the new key, otherwise a session is minted.
	id := sessionID(r)
	if id == "" {
		id = uuid.NewString()
	}
	s.mu.Lock()
	s.sessions[id] = key
	s.mu.Unlock()

	http.SetCookie(w, &http.Cookie{
		Name:     "session_id",
		Value:    id,
		Path:     "/",
		MaxAge:   3600,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	s.log.Info().Str("session", id).Str("key", crypto.KeyFingerprint(key).String()).Msg("session established")
	s.reply(w, key, http.StatusOK, domain.HandshakeAck{Info: domain.HandshakeAckInfo, Session: id})
}

func (s *Server) unwrap(data string) (domain.HandshakeRequest, error) {
	ct, err := crypto.Decode(data)
	if err != nil {
		return domain.HandshakeRequest{}, err
	}
	msg, err := rsa.DecryptOAEP(sha256.New(), rand.Reader, s.priv, ct, nil)
	if err != nil {
		return domain.HandshakeRequest{}, err
	}
	var req domain.HandshakeRequest
	if err := json.Unmarshal(msg, &req); err != nil {
		return domain.HandshakeRequest{}, err
	}
	if req.Info != domain.HandshakeInfo {
		return domain.HandshakeRequest{}, errors.New("unexpected handshake info " + req.Info)
	}
	return req, nil
}

func (s *Server) api(w http.ResponseWriter, r *http.Request, api domain.APIName, body []byte) {
	id := sessionID(r)
	s.mu.Lock()
	key, ok := s.sessions[id]
	h := s.handlers[api]
	s.mu.Unlock()
	if !ok {
		http.SetCookie(w, &http.Cookie{Name: "session_id", Value: "", Path: "/", MaxAge: -1})
		writeJSON(w, http.StatusForbidden, errorBody(domain.InvalidSessionMarker))
		return
	}

	var in struct {
		Data domain.Envelope `json:"data"`
	}
	if err := json.Unmarshal(body, &in); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request"))
		return
	}
	pt, err := crypto.Decrypt(key, in.Data)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request"))
		return
	}
	if !json.Valid(pt) {
		writeJSON(w, http.StatusBadRequest, errorBody("bad_request"))
		return
	}
	s.mu.Lock()
	s.last[api] = json.RawMessage(pt)
	s.mu.Unlock()

	if h == nil {
		s.reply(w, key, http.StatusNotFound, errorBody("unknown_api"))
		return
	}
	out, status := h(id, pt)
	s.reply(w, key, status, out)
}

func (s *Server) reply(w http.ResponseWriter, key domain.SessionKey, status int, v any) {
	pt, err := json.Marshal(v)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal"))
		return
	}
	env, err := crypto.Encrypt(key, pt)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, errorBody("internal"))
		return
	}
	s.mu.Lock()
	tamper := s.tamper
	s.tamper = false
	s.mu.Unlock()
	if tamper {
		ct, _ := crypto.Decode(env.Ciphertext)
		ct[0] ^= 0x01
		env.Ciphertext = crypto.Encode(ct)
	}
	writeJSON(w, status, env)
}

func sessionID(r *http.Request) string {
	c, err := r.Cookie("session_id")
	if err != nil {
		return ""
	}
	return c.Value
}

func errorBody(code string) map[string]string { return map[string]string{"error": code} }

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Echo answers with the decrypted request unchanged.
func Echo(_ string, req json.RawMessage) (any, int) { return req, http.StatusOK }
