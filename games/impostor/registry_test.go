/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateCode(t *testing.T) {
	for range 200 {
		code, err := GenerateCode()
		require.NoError(t, err)
		require.Len(t, code, CodeLength)

		for _, c := range code {
			require.True(t, strings.ContainsRune(CodeChars, c), "unexpected character %q", c)
		}
	}

	for _, confusable := range "0O1I" {
		assert.NotContains(t, CodeChars, string(confusable))
	}
}

func TestNormalizeCode(t *testing.T) {
	assert.Equal(t, "ABC234", NormalizeCode("  abc234 "))
}

func TestRegistryRetriesOnCollision(t *testing.T) {
	r := NewRegistry()

	codes := []string{"AAAAAA", "AAAAAA", "BBBBBB"}
	r.newCode = func() (string, error) {
		code := codes[0]
		codes = codes[1:]
		return code, nil
	}

	first, err := r.Create(&Player{ID: "1", Name: "one"})
	require.NoError(t, err)
	assert.Equal(t, "AAAAAA", first.Code)

	second, err := r.Create(&Player{ID: "2", Name: "two"})
	require.NoError(t, err)
	assert.Equal(t, "BBBBBB", second.Code)

	assert.Equal(t, 2, r.Len())
	assert.True(t, second.Players[0].IsHost)
}

func TestRegistryExhausted(t *testing.T) {
	r := NewRegistry()
	r.newCode = func() (string, error) { return "AAAAAA", nil }

	_, err := r.Create(&Player{ID: "1"})
	require.NoError(t, err)

	_, err = r.Create(&Player{ID: "2"})
	assert.ErrorIs(t, err, ErrExhausted)
	assert.Equal(t, KindInternal, ErrorKind(err))

	r.newCode = func() (string, error) { return "", errors.New("entropy unavailable") }
	_, err = r.Create(&Player{ID: "3"})
	assert.ErrorIs(t, err, ErrExhausted)
}

func TestRegistryDestroy(t *testing.T) {
	r := NewRegistry()

	lobby, err := r.Create(&Player{ID: "1"})
	require.NoError(t, err)

	lobby.mu.Lock()
	r.destroy(lobby)
	lobby.mu.Unlock()

	_, ok := r.Get(lobby.Code)
	assert.False(t, ok)
	assert.True(t, lobby.closed)
}
