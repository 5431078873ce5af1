package jwthelper_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendance-api/internal/pkg/jwthelper"
)

func TestCreateAndParseToken(t *testing.T) {
	key := []byte("test-signing-key")

	token, err := jwthelper.CreateToken(key, 7, "ADMIN")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := jwthelper.ParseToken(key, token)

	require.NoError(t, err)
	assert.Equal(t, uint(7), claims.UserID)
	assert.Equal(t, "ADMIN", claims.Role)
}

func TestParseToken_WrongKey(t *testing.T) {
	token, err := jwthelper.CreateToken([]byte("key-one"), 7, "USER")
	require.NoError(t, err)

	_, err = jwthelper.ParseToken([]byte("key-two"), token)

	assert.Error(t, err)
}

func TestParseToken_Garbage(t *testing.T) {
	_, err := jwthelper.ParseToken([]byte("key"), "not.a.token")

	assert.Error(t, err)
}
