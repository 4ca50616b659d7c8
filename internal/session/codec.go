// Package session implements the stateless client-held session: an
// encrypted-then-signed token carried in a cookie. The server keeps no
// session table; the token is the whole session.
package session

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
)

// Session is the payload encoded into the cookie. It is intentionally small:
// just a reference to the authenticated user.
type Session struct {
	UserID int64 `json:"userId"`
}

// ErrInvalidToken is the single failure mode for decoding. Tampered,
// truncated and garbage tokens are indistinguishable from each other, and
// callers treat all of them as "no session".
var ErrInvalidToken = errors.New("invalid session token")

const (
	encryptionKeySize = 16 // AES-128
	signingKeySize    = 32 // HMAC-SHA256
	nonceSize         = 12
	macSize           = sha256.Size
)

// Codec encrypts the session payload with AES-GCM under the encryption key,
// then signs nonce+ciphertext with HMAC-SHA256 under the independent signing
// key. Both keys come from configuration as hex strings.
type Codec struct {
	aead    cipher.AEAD
	signKey []byte
}

func NewCodec(encryptionKeyHex, signingKeyHex string) (*Codec, error) {
	encKey, err := hex.DecodeString(encryptionKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode cookie encryption key: %w", err)
	}

	if len(encKey) != encryptionKeySize {
		return nil, fmt.Errorf("cookie encryption key must be %d bytes, got %d", encryptionKeySize, len(encKey))
	}

	signKey, err := hex.DecodeString(signingKeyHex)
	if err != nil {
		return nil, fmt.Errorf("decode cookie signing key: %w", err)
	}

	if len(signKey) != signingKeySize {
		return nil, fmt.Errorf("cookie signing key must be %d bytes, got %d", signingKeySize, len(signKey))
	}

	block, err := aes.NewCipher(encKey)
	if err != nil {
		return nil, err
	}

	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}

	return &Codec{aead: aead, signKey: signKey}, nil
}

// Encode produces the opaque token: base64url(nonce || ciphertext || mac).
func (c *Codec) Encode(s Session) (string, error) {
	plaintext, err := json.Marshal(s)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, nonceSize)

	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}

	msg := c.aead.Seal(nonce, nonce, plaintext, nil)

	mac := hmac.New(sha256.New, c.signKey)
	mac.Write(msg)
	msg = mac.Sum(msg)

	return base64.RawURLEncoding.EncodeToString(msg), nil
}

// Decode verifies the signature before touching the ciphertext and returns
// ErrInvalidToken on any failure.
func (c *Codec) Decode(token string) (Session, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	if len(raw) < nonceSize+macSize {
		return Session{}, ErrInvalidToken
	}

	msg, gotMac := raw[:len(raw)-macSize], raw[len(raw)-macSize:]

	mac := hmac.New(sha256.New, c.signKey)
	mac.Write(msg)

	if !hmac.Equal(gotMac, mac.Sum(nil)) {
		return Session{}, ErrInvalidToken
	}

	nonce, ciphertext := msg[:nonceSize], msg[nonceSize:]

	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return Session{}, ErrInvalidToken
	}

	var s Session

	if err := json.Unmarshal(plaintext, &s); err != nil {
		return Session{}, ErrInvalidToken
	}

	return s, nil
}
