/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestImpostorSelectionIsUniform(t *testing.T) {
	const trials = 4000

	l := votingLobby("", "A", "B", "C", "D")
	l.Players[2].IsDisconnected = true

	rng := rand.New(rand.NewPCG(20251017, 42))
	counts := make(map[string]int)
	words := make(map[string]int)

	for range trials {
		assignRolesLocked(l, DefaultWords, rng)
		counts[l.ImpostorID]++
		words[l.SecretWord]++
	}

	expected := trials / len(l.Players)
	for _, p := range l.Players {
		// Roughly five standard deviations either way.
		assert.InDelta(t, expected, counts[p.ID], 140, "impostor count for %s", p.ID)
	}
	assert.Len(t, words, len(DefaultWords), "every word gets picked eventually")
}

func TestAssignRolesResetsRoundFlags(t *testing.T) {
	l := votingLobby("", "A", "B", "C")
	l.Votes = []Vote{{"A", "B"}}
	l.LastResult = &GameResult{}
	for _, p := range l.Players {
		p.HasVoted = true
		p.IsReady = true
		p.IsEliminated = true
	}

	assignRolesLocked(l, []string{"Bank"}, impostorAt(2))

	assert.Equal(t, "C", l.ImpostorID)
	assert.Equal(t, "Bank", l.SecretWord)
	assert.Empty(t, l.Votes)
	assert.Nil(t, l.LastResult)

	for _, p := range l.Players {
		assert.False(t, p.HasVoted)
		assert.False(t, p.IsReady)
		assert.False(t, p.IsEliminated)
		require.Equal(t, p.ID == "C", p.IsImpostor)
		if p.IsImpostor {
			assert.Empty(t, p.SecretWord)
		} else {
			assert.Equal(t, "Bank", p.SecretWord)
		}
	}
}
