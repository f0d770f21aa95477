// Package domain defines core data models and interfaces shared across the app.
// It contains plain types (wire/state) and contracts (interfaces) only.
//
// Concrete definitions live in the types and interfaces subpackages; this
// package re-exports them so callers need a single import.
package domain
