package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const accountIDLength = 16

func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// AccountID derives the stable store key for a credential so the raw
// token never leaves the reward client.
func AccountID(token string) string {
	return HashToken(token)[:accountIDLength]
}

func MaskToken(token string) string {
	if len(token) <= 8 {
		return "****"
	}
	return token[:4] + "****" + token[len(token)-4:]
}
