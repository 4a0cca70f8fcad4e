/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBindings(t *testing.T) {
	b := NewBindings()

	b.Bind("conn-1", "CODE22", "player-1")
	binding, ok := b.Lookup("conn-1")
	require.True(t, ok)
	assert.Equal(t, Binding{Code: "CODE22", PlayerID: "player-1"}, binding)

	b.Unbind("conn-1", "player-2")
	_, ok = b.Lookup("conn-1")
	assert.True(t, ok, "unbinding on behalf of another player is ignored")

	b.Unbind("conn-1", "player-1")
	_, ok = b.Lookup("conn-1")
	assert.False(t, ok)

	b.Bind("", "CODE22", "player-1")
	_, ok = b.Lookup("")
	assert.False(t, ok)
	assert.Equal(t, 0, b.Len())
}
