package utils

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ParseUUID parses a string into a UUID
func ParseUUID(s string) (uuid.UUID, error) {
	return uuid.Parse(strings.TrimSpace(s))
}

// NewReference builds "<prefix>-<owner id>-<8 upper-case hex>" codes used
// for parked carts and returns
func NewReference(prefix string, owner uuid.UUID) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("%s-%s-%s", prefix, owner, strings.ToUpper(suffix))
}
