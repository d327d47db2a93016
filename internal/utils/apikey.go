// internal/utils/apikey.go
package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateAPIKey produces a widget shared-secret key. The sai_ prefix makes
// leaked keys recognizable in logs and scanners.
func GenerateAPIKey() (string, error) {
	raw := make([]byte, 16)
	if _, err := rand.Read(raw); err != nil {
		return "", fmt.Errorf("failed to generate api key: %w", err)
	}
	return "sai_" + hex.EncodeToString(raw), nil
}
