package shared

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"regexp"
)

// Client-facing documents are shared through unguessable tokens instead of
// row IDs. Tokens are 32 lowercase hex characters (128 bits of entropy).
var documentTokenPattern = regexp.MustCompile(`^[a-f0-9]{32}$`)

// NewDocumentToken generates a new share token
func NewDocumentToken() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		panic("shared: crypto/rand unavailable: " + err.Error())
	}
	return hex.EncodeToString(buf)
}

// IsValidDocumentToken reports whether the string has the expected token shape
func IsValidDocumentToken(token string) bool {
	return documentTokenPattern.MatchString(token)
}

// UnsubscribeToken derives the HMAC-SHA256 token that authorizes email
// preference changes for a profile without a session.
func UnsubscribeToken(secret []byte, profileID string) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write([]byte(profileID))
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifyUnsubscribeToken checks a presented unsubscribe token in constant time
func VerifyUnsubscribeToken(secret []byte, profileID, token string) bool {
	expected := UnsubscribeToken(secret, profileID)
	return hmac.Equal([]byte(expected), []byte(token))
}
