// Package uuid generates the time-ordered identifiers used as primary keys.
package uuid

import (
	googleuuid "github.com/google/uuid"
)

// New generates a new UUIDv7. Version 7 identifiers sort by creation time and
// carry 74 random bits, so two calls never return the same value.
func New() string {
	id, err := googleuuid.NewV7()
	if err != nil {
		// Entropy source failure; a random v4 is still collision-free.
		return googleuuid.New().String()
	}
	return id.String()
}

// IsValid checks if a string is a valid UUID
func IsValid(s string) bool {
	_, err := googleuuid.Parse(s)
	return err == nil
}
