package payment

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
)

// GenerateReference builds an externally visible transaction reference:
// a user-scoped prefix plus 128 bits of crypto/rand entropy, so collisions
// are negligible and references are unguessable.
func GenerateReference(userID string) (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate reference: %w", err)
	}

	prefix := strings.ReplaceAll(userID, "-", "")
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}

	return fmt.Sprintf("HT-%s-%s", prefix, hex.EncodeToString(buf)), nil
}
