package types

// AuthAPI is the API name serving account operations.
const AuthAPI APIName = "auth"

// Operation tags understood by the auth API.
const (
	AuthInfoRequestData = "request_data"
	AuthInfoAuthorize   = "authorize"
	AuthInfoSignup      = "signup"
	AuthInfoLogout      = "logout"
)

// StatusSuccess is the AuthResult.Status of a successful operation.
const StatusSuccess = "success"

// AuthParams describes how the backend expects clients to authenticate.
type AuthParams struct {
	Info string         `json:"info"`
	Data map[string]any `json:"data"`
}

// AuthResult is the backend answer to authorize, signup and logout.
type AuthResult struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
}

// Succeeded reports whether the backend accepted the operation.
func (r AuthResult) Succeeded() bool { return r.Status == StatusSuccess }
