package solana

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKeypair_SignVerify(t *testing.T) {
	kp, err := NewKeypair()
	require.NoError(t, err)

	msg := []byte("create_token")
	sig := kp.Sign(msg)

	require.NoError(t, Verify(kp.PublicKey, msg, sig))
	assert.ErrorIs(t, Verify(kp.PublicKey, []byte("mint_tokens"), sig), ErrInvalidSignature)
	assert.ErrorIs(t, Verify(kp.PublicKey, msg, sig[:10]), ErrInvalidSignature)
}

func TestKeypairFile_RoundTrip(t *testing.T) {
	kp, err := NewKeypair()
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "keys", "id.json")
	require.NoError(t, SaveKeypairFile(path, kp))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := LoadKeypairFile(path)
	require.NoError(t, err)
	assert.Equal(t, kp.Address(), loaded.Address())
	assert.Equal(t, kp.PrivateKey, loaded.PrivateKey)
}

func TestDecodeKeypairJSON_Errors(t *testing.T) {
	_, err := decodeKeypairJSON([]byte(`[1,2,3]`))
	assert.Error(t, err)

	_, err = decodeKeypairJSON([]byte(`{"key":1}`))
	assert.Error(t, err)

	bad := make([]byte, 0, 300)
	bad = append(bad, '[')
	for i := 0; i < 64; i++ {
		if i > 0 {
			bad = append(bad, ',')
		}
		bad = append(bad, '3', '0', '0')
	}
	bad = append(bad, ']')
	_, err = decodeKeypairJSON(bad)
	assert.Error(t, err)
}
