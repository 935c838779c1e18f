package accounts

import (
	"crypto/rand"
	"encoding/hex"
	"io"
)

// opaqueTokenBytes is the entropy carried by verification and reset tokens.
const opaqueTokenBytes = 40

// RandomTokenString returns an unguessable opaque token, hex encoded. The
// same generator backs both verification and password reset tickets; they
// are verified through a storage lookup, not a signature.
func RandomTokenString() (string, error) {
	b := make([]byte, opaqueTokenBytes)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
