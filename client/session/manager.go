// Package session manages the client side of the pairwise encryption
// scheme: one X25519 key pair per chat session and one lazily derived
// symmetric key per remote peer. Nothing in this package survives the
// session; Clear wipes everything and the process holds no other copy.
package session

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"sync"

	"github.com/ashev87/safechat/internal/crypto"
)

// Session errors. Crypto failures are never recovered into a degraded
// state: an encrypt error means the message was not sent, a decrypt error
// means the message is undeliverable. There is no plaintext fallback.
var (
	// ErrSessionClosed is returned by every operation after Clear.
	ErrSessionClosed = errors.New("session closed")
	// ErrAuthenticationFailure is returned when a ciphertext fails
	// integrity verification: tampering, wrong key, or corruption.
	ErrAuthenticationFailure = errors.New("message authentication failed")
	// ErrInvalidPeerKey is returned for peer keys of the wrong length.
	ErrInvalidPeerKey = errors.New("invalid peer public key")
)

const safetyNumberGroups = 12

// Manager owns one session key pair and the per-peer shared-key cache.
// The cache check-then-insert is serialized, so concurrent callers always
// observe one key per peer.
type Manager struct {
	mu        sync.Mutex
	publicKey *[crypto.KeySize]byte
	secretKey *[crypto.KeySize]byte
	shared    map[[crypto.KeySize]byte]*[crypto.KeySize]byte
	closed    bool
}

// NewManager generates a fresh key pair and an empty key cache. Call once
// per logical chat session.
func NewManager() (*Manager, error) {
	publicKey, secretKey, err := crypto.GenerateKeyPair()
	if err != nil {
		return nil, fmt.Errorf("create session: %w", err)
	}
	return &Manager{
		publicKey: publicKey,
		secretKey: secretKey,
		shared:    make(map[[crypto.KeySize]byte]*[crypto.KeySize]byte),
	}, nil
}

// PublicKey returns the session's shareable public key.
func (m *Manager) PublicKey() []byte {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	return append([]byte(nil), m.publicKey[:]...)
}

// deriveOrFetch returns the cached shared key for the peer, deriving and
// caching it on first use. Derivation is deterministic, so repeated calls
// return bit-identical key material. Caller must hold m.mu.
func (m *Manager) deriveOrFetch(peer *[crypto.KeySize]byte) *[crypto.KeySize]byte {
	if key, ok := m.shared[*peer]; ok {
		return key
	}
	key := crypto.SharedKey(m.secretKey, peer)
	m.shared[*peer] = key
	return key
}

// Encrypt authenticates and encrypts plaintext for the peer under their
// pairwise shared key, with a fresh random nonce per call. Fails closed:
// on any error no ciphertext is produced.
func (m *Manager) Encrypt(plaintext, peerPublicKey []byte) (ciphertext, nonce []byte, err error) {
	peer, err := toKey(peerPublicKey)
	if err != nil {
		return nil, nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, nil, ErrSessionClosed
	}

	key := m.deriveOrFetch(peer)
	n, err := crypto.NewNonce()
	if err != nil {
		return nil, nil, fmt.Errorf("encrypt: %w", err)
	}
	return crypto.Seal(plaintext, n, key), n[:], nil
}

// Decrypt verifies and decrypts a ciphertext from the peer. A failed
// integrity check returns ErrAuthenticationFailure and no plaintext; the
// caller must surface the message as undeliverable, never drop it silently.
func (m *Manager) Decrypt(ciphertext, nonce, peerPublicKey []byte) ([]byte, error) {
	peer, err := toKey(peerPublicKey)
	if err != nil {
		return nil, err
	}
	if len(nonce) != crypto.NonceSize {
		return nil, ErrAuthenticationFailure
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil, ErrSessionClosed
	}

	key := m.deriveOrFetch(peer)
	var n [crypto.NonceSize]byte
	copy(n[:], nonce)

	plaintext, ok := crypto.Open(ciphertext, &n, key)
	if !ok {
		return nil, ErrAuthenticationFailure
	}
	return plaintext, nil
}

// SafetyNumber derives a human-comparable digest over both parties' public
// keys. The keys are ordered canonically before hashing, so either side
// computes the identical number. Rendered as 12 groups of 5 decimal digits.
func (m *Manager) SafetyNumber(peerPublicKey []byte) (string, error) {
	peer, err := toKey(peerPublicKey)
	if err != nil {
		return "", err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return "", ErrSessionClosed
	}

	low, high := m.publicKey[:], peer[:]
	if bytes.Compare(low, high) > 0 {
		low, high = high, low
	}

	digest := crypto.Hash(append(append([]byte(nil), low...), high...))
	digest = append(digest, crypto.Hash(digest)...)

	var out bytes.Buffer
	for i := 0; i < safetyNumberGroups; i++ {
		if i > 0 {
			out.WriteByte(' ')
		}
		group := binary.BigEndian.Uint32(digest[i*4:]) % 100000
		fmt.Fprintf(&out, "%05d", group)
	}
	return out.String(), nil
}

// Clear discards the key pair and every cached shared key. All subsequent
// operations fail with ErrSessionClosed; a new session requires a new
// Manager. This is the forward-secrecy boundary: nothing survives it.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	for i := range m.secretKey {
		m.secretKey[i] = 0
	}
	for _, key := range m.shared {
		for i := range key {
			key[i] = 0
		}
	}
	m.publicKey = nil
	m.secretKey = nil
	m.shared = nil
	m.closed = true
}

func toKey(raw []byte) (*[crypto.KeySize]byte, error) {
	if len(raw) != crypto.KeySize {
		return nil, ErrInvalidPeerKey
	}
	var key [crypto.KeySize]byte
	copy(key[:], raw)
	return &key, nil
}
