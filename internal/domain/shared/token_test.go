package shared

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewDocumentToken(t *testing.T) {
	a := NewDocumentToken()
	b := NewDocumentToken()

	assert.True(t, IsValidDocumentToken(a))
	assert.True(t, IsValidDocumentToken(b))
	assert.NotEqual(t, a, b)
}

func TestIsValidDocumentToken(t *testing.T) {
	assert.True(t, IsValidDocumentToken("0123456789abcdef0123456789abcdef"))
	assert.False(t, IsValidDocumentToken(""))
	assert.False(t, IsValidDocumentToken("0123456789abcdef"))
	assert.False(t, IsValidDocumentToken("0123456789ABCDEF0123456789ABCDEF"))
	assert.False(t, IsValidDocumentToken("0123456789abcdef0123456789abcdeg"))
	assert.False(t, IsValidDocumentToken("0123456789abcdef0123456789abcdef00"))
}

func TestUnsubscribeToken(t *testing.T) {
	secret := []byte("test-secret")
	profileID := "d8f3a9b2-1c4e-4f6a-9b2d-3e5f7a8c9d0e"

	token := UnsubscribeToken(secret, profileID)
	assert.True(t, VerifyUnsubscribeToken(secret, profileID, token))

	// Wrong profile, wrong secret and tampered token all fail
	assert.False(t, VerifyUnsubscribeToken(secret, "other-profile", token))
	assert.False(t, VerifyUnsubscribeToken([]byte("other-secret"), profileID, token))
	assert.False(t, VerifyUnsubscribeToken(secret, profileID, token[:len(token)-1]+"0"))
}
