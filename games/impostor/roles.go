/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"math/rand/v2"
)

// Picker chooses an index in [0, n). *rand.Rand satisfies it, so tests can
// pass a seeded source.
type Picker interface {
	IntN(n int) int
}

type globalPicker struct{}

func (globalPicker) IntN(n int) int {
	return rand.IntN(n)
}

// assignRolesLocked picks the secret word and the impostor for a new game.
// Disconnected players are candidates like everyone else.
func assignRolesLocked(l *Lobby, words []string, rng Picker) {
	word := words[rng.IntN(len(words))]
	impostor := l.Players[rng.IntN(len(l.Players))]

	l.SecretWord = word
	l.ImpostorID = impostor.ID
	l.Votes = nil
	l.LastResult = nil

	for _, p := range l.Players {
		p.IsImpostor = p.ID == impostor.ID
		if p.IsImpostor {
			p.SecretWord = ""
		} else {
			p.SecretWord = word
		}
		p.HasVoted = false
		p.IsReady = false
		p.IsEliminated = false
	}
}

func roleMessage(p *Player) RoleMessage {
	return RoleMessage{
		Type:       TypeRoleAssigned,
		IsImpostor: p.IsImpostor,
		SecretWord: p.SecretWord,
	}
}
