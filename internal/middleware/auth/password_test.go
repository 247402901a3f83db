package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPIN(t *testing.T) {
	hash, err := HashPIN("4711")
	require.NoError(t, err)
	assert.NotEqual(t, "4711", hash)

	assert.NoError(t, VerifyPIN(hash, "4711"))
	assert.Error(t, VerifyPIN(hash, "1234"))
	assert.Error(t, VerifyPIN("", "4711"))
}
