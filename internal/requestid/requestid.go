// Package requestid generates time-ordered identifiers for dev backend requests.
package requestid

import (
	googleuuid "github.com/google/uuid"
)

// New returns a UUIDv7 string, which sorts by creation time.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Fallback to standard UUIDv4 if random generation fails
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID. Incoming X-Request-ID headers
// are reused only when they pass this check.
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
