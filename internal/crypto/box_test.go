package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSharedKeySymmetry(t *testing.T) {
	alicePub, aliceSec, err := GenerateKeyPair()
	require.NoError(t, err)
	bobPub, bobSec, err := GenerateKeyPair()
	require.NoError(t, err)

	aliceShared := SharedKey(aliceSec, bobPub)
	bobShared := SharedKey(bobSec, alicePub)
	require.Equal(t, aliceShared, bobShared)
}

func TestSealOpenRoundTrip(t *testing.T) {
	alicePub, aliceSec, err := GenerateKeyPair()
	require.NoError(t, err)
	bobPub, bobSec, err := GenerateKeyPair()
	require.NoError(t, err)

	key := SharedKey(aliceSec, bobPub)
	peerKey := SharedKey(bobSec, alicePub)

	for _, plaintext := range [][]byte{
		nil,
		[]byte("hello"),
		make([]byte, 64*1024),
	} {
		nonce, err := NewNonce()
		require.NoError(t, err)

		ciphertext := Seal(plaintext, nonce, key)
		require.Len(t, ciphertext, len(plaintext)+Overhead)

		opened, ok := Open(ciphertext, nonce, peerKey)
		require.True(t, ok)
		require.Equal(t, len(plaintext), len(opened))
	}
}

func TestOpenRejectsTamperedCiphertext(t *testing.T) {
	_, aliceSec, err := GenerateKeyPair()
	require.NoError(t, err)
	bobPub, _, err := GenerateKeyPair()
	require.NoError(t, err)

	key := SharedKey(aliceSec, bobPub)
	nonce, err := NewNonce()
	require.NoError(t, err)
	ciphertext := Seal([]byte("payload"), nonce, key)

	ciphertext[0] ^= 0x01
	_, ok := Open(ciphertext, nonce, key)
	require.False(t, ok)
}

func TestEncodeDecode(t *testing.T) {
	raw, err := RandBytes(make([]byte, 48))
	require.NoError(t, err)

	decoded, err := Decode(Encode(raw))
	require.NoError(t, err)
	require.Equal(t, raw, decoded)

	_, err = Decode("not base64!!")
	require.Error(t, err)
}
