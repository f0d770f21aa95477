// Package auth wraps the backend "auth" API: reading the advertised
// authentication parameters, account signup, login and logout. Every
// operation is one encrypted call through the session service.
package auth
