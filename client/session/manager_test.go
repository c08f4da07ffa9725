package session

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ashev87/safechat/internal/crypto"
)

func newPair(t *testing.T) (*Manager, *Manager) {
	t.Helper()
	alice, err := NewManager()
	require.NoError(t, err)
	bob, err := NewManager()
	require.NoError(t, err)
	return alice, bob
}

func TestEncryptDecryptAcrossPeers(t *testing.T) {
	alice, bob := newPair(t)

	payloads := [][]byte{
		[]byte(""),
		[]byte("hello bob"),
		bytes.Repeat([]byte("x"), 4096),
		bytes.Repeat([]byte{0x00, 0xff}, 8192),
	}

	for _, plaintext := range payloads {
		ciphertext, nonce, err := alice.Encrypt(plaintext, bob.PublicKey())
		require.NoError(t, err)

		decrypted, err := bob.Decrypt(ciphertext, nonce, alice.PublicKey())
		require.NoError(t, err)
		require.Equal(t, len(plaintext), len(decrypted))
		require.Equal(t, string(plaintext), string(decrypted))
	}
}

func TestRoundTripSelfConsistency(t *testing.T) {
	alice, bob := newPair(t)

	// The encrypting side can decrypt its own output for the same peer,
	// confirming the cache returns the same key both ways.
	ciphertext, nonce, err := alice.Encrypt([]byte("note to self"), bob.PublicKey())
	require.NoError(t, err)

	plaintext, err := alice.Decrypt(ciphertext, nonce, bob.PublicKey())
	require.NoError(t, err)
	require.Equal(t, "note to self", string(plaintext))
}

func TestTamperDetection(t *testing.T) {
	alice, bob := newPair(t)

	ciphertext, nonce, err := alice.Encrypt([]byte("integrity matters"), bob.PublicKey())
	require.NoError(t, err)

	for i := range ciphertext {
		tampered := append([]byte(nil), ciphertext...)
		tampered[i] ^= 0x01
		_, err := bob.Decrypt(tampered, nonce, alice.PublicKey())
		require.ErrorIs(t, err, ErrAuthenticationFailure)
	}

	badNonce := append([]byte(nil), nonce...)
	badNonce[0] ^= 0x01
	_, err = bob.Decrypt(ciphertext, badNonce, alice.PublicKey())
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestDecryptWithWrongPeerKey(t *testing.T) {
	alice, bob := newPair(t)
	mallory, err := NewManager()
	require.NoError(t, err)

	ciphertext, nonce, err := alice.Encrypt([]byte("secret"), bob.PublicKey())
	require.NoError(t, err)

	_, err = bob.Decrypt(ciphertext, nonce, mallory.PublicKey())
	require.ErrorIs(t, err, ErrAuthenticationFailure)
}

func TestNonceUniqueness(t *testing.T) {
	alice, bob := newPair(t)

	seen := make(map[string]bool)
	for i := 0; i < 2000; i++ {
		_, nonce, err := alice.Encrypt([]byte("m"), bob.PublicKey())
		require.NoError(t, err)
		require.Len(t, nonce, crypto.NonceSize)
		key := string(nonce)
		require.False(t, seen[key], "nonce repeated after %d encryptions", i)
		seen[key] = true
	}
}

func TestSafetyNumberSymmetry(t *testing.T) {
	alice, bob := newPair(t)

	fromAlice, err := alice.SafetyNumber(bob.PublicKey())
	require.NoError(t, err)
	fromBob, err := bob.SafetyNumber(alice.PublicKey())
	require.NoError(t, err)

	require.Equal(t, fromAlice, fromBob)
	require.Regexp(t, `^\d{5}( \d{5}){11}$`, fromAlice)

	// Deterministic across calls.
	again, err := alice.SafetyNumber(bob.PublicKey())
	require.NoError(t, err)
	require.Equal(t, fromAlice, again)
}

func TestSafetyNumberDiffersPerPeer(t *testing.T) {
	alice, bob := newPair(t)
	carol, err := NewManager()
	require.NoError(t, err)

	withBob, err := alice.SafetyNumber(bob.PublicKey())
	require.NoError(t, err)
	withCarol, err := alice.SafetyNumber(carol.PublicKey())
	require.NoError(t, err)
	require.NotEqual(t, withBob, withCarol)
}

func TestInvalidPeerKey(t *testing.T) {
	alice, _ := newPair(t)

	_, _, err := alice.Encrypt([]byte("m"), []byte("short"))
	require.ErrorIs(t, err, ErrInvalidPeerKey)

	_, err = alice.SafetyNumber(nil)
	require.ErrorIs(t, err, ErrInvalidPeerKey)
}

func TestClear(t *testing.T) {
	alice, bob := newPair(t)

	ciphertext, nonce, err := alice.Encrypt([]byte("before"), bob.PublicKey())
	require.NoError(t, err)

	alice.Clear()
	alice.Clear() // idempotent

	require.Nil(t, alice.PublicKey())

	_, _, err = alice.Encrypt([]byte("after"), bob.PublicKey())
	require.ErrorIs(t, err, ErrSessionClosed)

	_, err = alice.Decrypt(ciphertext, nonce, bob.PublicKey())
	require.ErrorIs(t, err, ErrSessionClosed)

	_, err = alice.SafetyNumber(bob.PublicKey())
	require.ErrorIs(t, err, ErrSessionClosed)
}
