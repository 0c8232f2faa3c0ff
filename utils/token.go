package utils

import (
	"strings"

	"github.com/google/uuid"
)

// GetToken returns a random bearer token.
func GetToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

// NewBlobName generates a collision-free on-disk filename keeping the
// original extension. Client-supplied names are never used as paths.
func NewBlobName(ext string) string {
	return uuid.NewString() + ext
}
