// Package crypto wraps the NaCl primitives used by the session layer:
// X25519 key agreement, XSalsa20-Poly1305 authenticated encryption and
// SHA-256 hashing.
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"fmt"

	"golang.org/x/crypto/nacl/box"
)

const (
	// KeySize is the byte length of public keys, secret keys and derived
	// shared keys.
	KeySize = 32
	// NonceSize is the byte length of encryption nonces.
	NonceSize = 24
	// Overhead is the ciphertext expansion added by the Poly1305 tag.
	Overhead = box.Overhead
)

// GenerateKeyPair generates a new X25519 key pair.
// Returns (publicKey, secretKey, error).
func GenerateKeyPair() (*[KeySize]byte, *[KeySize]byte, error) {
	publicKey, secretKey, err := box.GenerateKey(rand.Reader)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to generate keypair: %w", err)
	}
	return publicKey, secretKey, nil
}

// SharedKey derives the symmetric key for the (ownSecret, peerPublic) pair.
// Both sides of the exchange derive the identical key.
func SharedKey(ownSecret, peerPublic *[KeySize]byte) *[KeySize]byte {
	var shared [KeySize]byte
	box.Precompute(&shared, peerPublic, ownSecret)
	return &shared
}

// NewNonce generates a fresh random nonce.
func NewNonce() (*[NonceSize]byte, error) {
	var nonce [NonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("failed to generate nonce: %w", err)
	}
	return &nonce, nil
}

// Seal authenticates and encrypts plaintext under a derived shared key.
func Seal(plaintext []byte, nonce *[NonceSize]byte, key *[KeySize]byte) []byte {
	return box.SealAfterPrecomputation(nil, plaintext, nonce, key)
}

// Open verifies and decrypts ciphertext produced by Seal. The boolean is
// false when the ciphertext fails integrity verification.
func Open(ciphertext []byte, nonce *[NonceSize]byte, key *[KeySize]byte) ([]byte, bool) {
	return box.OpenAfterPrecomputation(nil, ciphertext, nonce, key)
}

// Hash returns the SHA-256 digest of the input.
func Hash(data []byte) []byte {
	sum := sha256.Sum256(data)
	return sum[:]
}
