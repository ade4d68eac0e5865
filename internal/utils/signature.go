package utils

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// GenerateHMACHex returns the lowercase hex HMAC-SHA256 of payload.
func GenerateHMACHex(payload []byte, key string) string {
	h := hmac.New(sha256.New, []byte(key))
	h.Write(payload)
	return hex.EncodeToString(h.Sum(nil))
}

// VerifyHMACHex compares signature against the expected digest in constant time.
func VerifyHMACHex(payload []byte, signature, key string) bool {
	expected := GenerateHMACHex(payload, key)
	signature = strings.ToLower(strings.TrimSpace(signature))
	return hmac.Equal([]byte(expected), []byte(signature))
}
