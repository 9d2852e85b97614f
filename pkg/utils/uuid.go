package utils

import (
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

// GenerateSKU generates a unique stock keeping unit like "HAR-1A2B3C4D"
func GenerateSKU(prefix string) string {
	return prefix + "-" + strings.ToUpper(uuid.New().String()[:8])
}
