// Package id generates opaque identifiers.
package id

import "github.com/google/uuid"

// New returns a random UUIDv4 string.
func New() string {
	return uuid.New().String()
}

// NewUser returns an identifier for an anonymous user.
func NewUser() string {
	return "anon-" + uuid.New().String()
}

// Valid reports whether s parses as a UUID.
func Valid(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
