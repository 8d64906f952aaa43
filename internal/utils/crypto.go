package utils

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"strings"
)

// CardEncryptor encrypts card numbers at rest with AES-256-GCM. The nonce is
// prepended to the ciphertext before base64 encoding.
type CardEncryptor struct {
	aead cipher.AEAD
}

// NewCardEncryptor derives a 32-byte AES key from the secret. Shorter secrets
// are zero-padded, longer ones truncated.
func NewCardEncryptor(secret string) (*CardEncryptor, error) {
	if secret == "" {
		return nil, errors.New("encryption secret is required")
	}
	key := make([]byte, 32)
	copy(key, secret)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, err
	}
	return &CardEncryptor{aead: aead}, nil
}

func (e *CardEncryptor) Encrypt(plaintext string) (string, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return "", err
	}
	sealed := e.aead.Seal(nonce, nonce, []byte(plaintext), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

func (e *CardEncryptor) Decrypt(encoded string) (string, error) {
	sealed, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", err
	}
	if len(sealed) < e.aead.NonceSize() {
		return "", errors.New("ciphertext too short")
	}
	nonce, ciphertext := sealed[:e.aead.NonceSize()], sealed[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// HashCardNumber returns a deterministic digest of a card number. GCM output
// is randomized, so lookups by number go through this hash column instead.
func HashCardNumber(cardNumber string) string {
	sum := sha256.Sum256([]byte(cardNumber))
	return hex.EncodeToString(sum[:])
}

const (
	minCardLength     = 13
	maxCardLength     = 19
	visibleCardDigits = 4
)

// MaskCardNumber hides all but the last four digits, grouped by four:
// "**** **** **** 1234". Inputs that don't look like card numbers are
// returned unchanged.
func MaskCardNumber(cardNumber string) string {
	if len(cardNumber) < minCardLength || len(cardNumber) > maxCardLength {
		return cardNumber
	}
	for _, r := range cardNumber {
		if r < '0' || r > '9' {
			return cardNumber
		}
	}
	masked := strings.Repeat("*", len(cardNumber)-visibleCardDigits) +
		cardNumber[len(cardNumber)-visibleCardDigits:]
	return FormatCardNumber(masked)
}

// FormatCardNumber groups a card number into blocks of four.
func FormatCardNumber(cardNumber string) string {
	if len(cardNumber) < minCardLength {
		return cardNumber
	}
	var b strings.Builder
	for i, r := range cardNumber {
		if i > 0 && i%4 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return b.String()
}
