package utils

import (
	"github.com/google/uuid"
)

// IsValidUUID reports whether an id from a request path or body parses as
// a UUID. Project, collection, block row, and deployment ids all use this
// format.
func IsValidUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// GenerateUUID allocates a fresh id for a newly created record
func GenerateUUID() string {
	return uuid.New().String()
}
