package session_test

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stefnlabs/websession/core/session"
)

func TestSign_Deterministic(t *testing.T) {
	t.Parallel()

	secret := []byte("a-very-secret-signing-key")
	message := "0192d2f1-7a3b-7cc1-a8f5-3d2b1a0c9e8f-1756700000"

	first := session.Sign(secret, message)
	second := session.Sign(secret, message)

	assert.Equal(t, first, second)
	assert.Len(t, first, 64, "hex-encoded SHA256 output is 64 chars")

	_, err := hex.DecodeString(first)
	require.NoError(t, err, "tag must be valid hex")
}

func TestSign_InputSensitivity(t *testing.T) {
	t.Parallel()

	secret := []byte("a-very-secret-signing-key")
	message := "some-session-id-1756700000"

	base := session.Sign(secret, message)

	assert.NotEqual(t, base, session.Sign([]byte("another-secret"), message),
		"changing the secret must change the tag")
	assert.NotEqual(t, base, session.Sign(secret, message+"x"),
		"changing the message must change the tag")
}

func TestSign_NoCollisionsInSample(t *testing.T) {
	t.Parallel()

	secret := []byte("collision-sample-secret")
	seen := make(map[string]string, 2000)

	for i := 0; i < 2000; i++ {
		var buf [16]byte
		_, err := rand.Read(buf[:])
		require.NoError(t, err)

		msg := fmt.Sprintf("%x-%d", buf, i)
		tag := session.Sign(secret, msg)

		prev, dup := seen[tag]
		require.False(t, dup, "collision between %q and %q", prev, msg)
		seen[tag] = msg
	}
}

func TestVerify(t *testing.T) {
	t.Parallel()

	secret := []byte("a-very-secret-signing-key")
	message := "session-id-and-created-at"
	tag := session.Sign(secret, message)

	t.Run("accepts valid tag", func(t *testing.T) {
		t.Parallel()
		assert.True(t, session.Verify(secret, message, tag))
	})

	t.Run("rejects single character tamper", func(t *testing.T) {
		t.Parallel()
		tampered := []byte(tag)
		if tampered[0] == 'a' {
			tampered[0] = 'b'
		} else {
			tampered[0] = 'a'
		}
		assert.False(t, session.Verify(secret, message, string(tampered)))
	})

	t.Run("rejects wrong secret", func(t *testing.T) {
		t.Parallel()
		assert.False(t, session.Verify([]byte("wrong"), message, tag))
	})

	t.Run("rejects empty presented tag", func(t *testing.T) {
		t.Parallel()
		assert.False(t, session.Verify(secret, message, ""))
	})
}
