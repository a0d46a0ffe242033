package gateway

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"

	domainErrors "github.com/quadramart/settlement/internal/domain/errors"
)

// Verifier checks callback authenticity using an HMAC signature shared
// with the provider.
type Verifier struct {
	secret []byte
}

// NewVerifier builds a Verifier with the shared secret.
func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(secret)}
}

// Verify compares the provider's base64 signature against the HMAC-SHA256
// of the raw callback body.
func (v *Verifier) Verify(body []byte, signature string) error {
	if signature == "" {
		return domainErrors.ErrSignatureMismatch
	}
	mac := hmac.New(sha256.New, v.secret)
	mac.Write(body)
	expected := base64.StdEncoding.EncodeToString(mac.Sum(nil))
	if !hmac.Equal([]byte(expected), []byte(signature)) {
		return domainErrors.ErrSignatureMismatch
	}
	return nil
}
