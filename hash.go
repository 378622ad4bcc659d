package relay

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey derives the content address of a translation: the SHA-256 of the trimmed text
// joined with the target language.
func CacheKey(text, targetLang string) string {
	hash := sha256.Sum256([]byte(strings.TrimSpace(text) + ":" + targetLang))
	return hex.EncodeToString(hash[:])
}
