package core

import "github.com/google/uuid"

// NewID returns a fresh random identifier for a transaction or subscription.
func NewID() string {
	return uuid.NewString()
}

// IsValidID reports whether s parses as a UUID.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
