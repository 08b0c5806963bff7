package utils

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSiteCode generates a random site reference code in the format
// ST-XXXX-XXXX. Codes are unique per site and show up on reports and
// timesheets.
func GenerateSiteCode() (string, error) {
	bytes := make([]byte, 4)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	hex := hex.EncodeToString(bytes)
	return fmt.Sprintf("ST-%s-%s", hex[0:4], hex[4:8]), nil
}
