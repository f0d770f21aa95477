package devserver

import (
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"ciphergate/internal/domain"
)

// Auth is an in-memory account backend for the "auth" API.
type Auth struct {
	secret   []byte
	mode     string
	tokenTTL time.Duration

	mu       sync.Mutex
	users    map[string][]byte
	loggedIn map[string]string // session id -> username
}

// NewAuth returns an Auth signing tokens with secret. mode is advertised to
// clients through the auth_params request.
func NewAuth(secret []byte, mode string) *Auth {
	return &Auth{
		secret:   secret,
		mode:     mode,
		tokenTTL: time.Hour,
		users:    make(map[string][]byte),
		loggedIn: make(map[string]string),
	}
}

type authRequest struct {
	Info     string `json:"info"`
	Data     string `json:"data"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoggedIn returns the username bound to a session, if any.
func (a *Auth) LoggedIn(sessionID string) (string, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()
	u, ok := a.loggedIn[sessionID]
	return u, ok
}

// Serve implements Handler.
func (a *Auth) Serve(sessionID string, raw json.RawMessage) (any, int) {
	var req authRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return failure("Invalid JSON data."), http.StatusOK
	}
	switch req.Info {
	case domain.AuthInfoRequestData:
		if req.Data != "auth_params" {
			return failure("Unknown data request."), http.StatusOK
		}
		return domain.AuthParams{Info: "auth_params", Data: map[string]any{"AUTH_MODE": a.mode}}, http.StatusOK
	case domain.AuthInfoAuthorize:
		return a.authorize(sessionID, req), http.StatusOK
	case domain.AuthInfoSignup:
		return a.signup(req), http.StatusOK
	case domain.AuthInfoLogout:
		a.mu.Lock()
		delete(a.loggedIn, sessionID)
		a.mu.Unlock()
		return domain.AuthResult{Status: domain.StatusSuccess, Message: "Logged out successfully."}, http.StatusOK
	default:
		return failure("Unknown operation."), http.StatusOK
	}
}

func (a *Auth) signup(req authRequest) domain.AuthResult {
	if req.Username == "" || req.Password == "" {
		return failure("Username and password required.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return failure("Could not register user.")
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	if _, exists := a.users[req.Username]; exists {
		return failure("Username already exists.")
	}
	a.users[req.Username] = hash
	return domain.AuthResult{Status: domain.StatusSuccess, Message: "User registered successfully."}
}

func (a *Auth) authorize(sessionID string, req authRequest) domain.AuthResult {
	if req.Username == "" || req.Password == "" {
		return failure("Username and password required.")
	}
	a.mu.Lock()
	hash, ok := a.users[req.Username]
	a.mu.Unlock()
	if !ok || bcrypt.CompareHashAndPassword(hash, []byte(req.Password)) != nil {
		return failure("Invalid username or password.")
	}

	now := time.Now()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   req.Username,
		ID:        sessionID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(a.tokenTTL)),
	}).SignedString(a.secret)
	if err != nil {
		return failure("Could not issue token.")
	}

	a.mu.Lock()
	a.loggedIn[sessionID] = req.Username
	a.mu.Unlock()
	return domain.AuthResult{Status: domain.StatusSuccess, Token: token, Message: "Authorization successful."}
}

// ParseToken validates a token issued by Authorize and returns its subject.
func (a *Auth) ParseToken(token string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	_, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return "", err
	}
	return claims.Subject, nil
}

func failure(msg string) domain.AuthResult {
	return domain.AuthResult{Status: "error", Message: msg}
}
