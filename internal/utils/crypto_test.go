package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCardEncryptorRoundTrip(t *testing.T) {
	enc, err := NewCardEncryptor("unit-test-secret")
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("4000000000000002")
	require.NoError(t, err)
	assert.NotEqual(t, "4000000000000002", ciphertext)

	plaintext, err := enc.Decrypt(ciphertext)
	require.NoError(t, err)
	assert.Equal(t, "4000000000000002", plaintext)
}

func TestCardEncryptorRandomizedOutput(t *testing.T) {
	enc, err := NewCardEncryptor("unit-test-secret")
	require.NoError(t, err)

	first, err := enc.Encrypt("4000000000000002")
	require.NoError(t, err)
	second, err := enc.Encrypt("4000000000000002")
	require.NoError(t, err)
	assert.NotEqual(t, first, second, "GCM output must be nonce-randomized")
}

func TestCardEncryptorRejectsWrongKey(t *testing.T) {
	enc, err := NewCardEncryptor("secret-one")
	require.NoError(t, err)
	other, err := NewCardEncryptor("secret-two")
	require.NoError(t, err)

	ciphertext, err := enc.Encrypt("4000000000000002")
	require.NoError(t, err)

	_, err = other.Decrypt(ciphertext)
	assert.Error(t, err)
}

func TestCardEncryptorRejectsEmptySecret(t *testing.T) {
	_, err := NewCardEncryptor("")
	assert.Error(t, err)
}

func TestCardEncryptorRejectsGarbage(t *testing.T) {
	enc, err := NewCardEncryptor("unit-test-secret")
	require.NoError(t, err)

	_, err = enc.Decrypt("not base64!!")
	assert.Error(t, err)

	_, err = enc.Decrypt("YWJj") // valid base64, shorter than a nonce
	assert.Error(t, err)
}

func TestHashCardNumber(t *testing.T) {
	first := HashCardNumber("4000000000000002")
	second := HashCardNumber("4000000000000002")
	other := HashCardNumber("4000000000000003")

	assert.Equal(t, first, second, "hash must be deterministic")
	assert.NotEqual(t, first, other)
	assert.Len(t, first, 64)
}

func TestMaskCardNumber(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"sixteen digits", "4000000000000002", "**** **** **** 0002"},
		{"too short passes through", "40000002", "40000002"},
		{"non-digits pass through", "4000-0000-0000-0002", "4000-0000-0000-0002"},
		{"empty passes through", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, MaskCardNumber(tt.input))
		})
	}
}
