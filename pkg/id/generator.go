// Package id generates unique identifiers for plans.
package id

import (
	"github.com/google/uuid"
)

// Generate generates a new unique ID.
func Generate() string {
	return uuid.New().String()
}
