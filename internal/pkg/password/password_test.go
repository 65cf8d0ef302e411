package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerify(t *testing.T) {
	hash, err := Hash("hunter2hunter2")
	require.NoError(t, err)

	assert.NotEqual(t, "hunter2hunter2", hash)
	assert.True(t, Verify("hunter2hunter2", hash))
	assert.False(t, Verify("wrong-password", hash))
}

func TestHashToken(t *testing.T) {
	a := HashToken("some-session-token")
	b := HashToken("some-session-token")
	c := HashToken("another-token")

	// Deterministic, hex-encoded SHA-256.
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)
	assert.Len(t, a, 64)
}
