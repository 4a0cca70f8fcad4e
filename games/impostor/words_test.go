/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWords(t *testing.T) {
	words, err := ReadWords(strings.NewReader("# places\nBeach\n\n  Zoo  \nBeach\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"Beach", "Zoo"}, words)

	_, err = ReadWords(strings.NewReader("\n# nothing here\n"))
	assert.Error(t, err)

	words, err = LoadWords("")
	require.NoError(t, err)
	assert.Equal(t, DefaultWords, words)

	_, err = LoadWords("does/not/exist.txt")
	assert.Error(t, err)
}
