/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"sync"
)

// Phase is the current stage of a lobby.
type Phase string

const (
	PhaseWaiting      Phase = "waiting"
	PhaseReveal       Phase = "reveal"
	PhaseVoting       Phase = "voting"
	PhaseRoundResults Phase = "round_results"
	PhaseResults      Phase = "results"
)

// Winner sides
const (
	WinnerPlayers  = "players"
	WinnerImpostor = "impostor"
)

// Player holds the data we store server-side. ID is stable for the
// lifetime of the player; ConnID changes on every rejoin and is empty
// while the player is disconnected.
type Player struct {
	ID     string
	ConnID string
	Name   string

	IsHost         bool
	IsImpostor     bool
	SecretWord     string
	HasVoted       bool
	IsReady        bool
	IsDisconnected bool
	IsEliminated   bool
}

// Vote is never modified after it is recorded.
type Vote struct {
	VoterID  string
	TargetID string
}

// VoteDetail is the display form of a vote inside a result.
type VoteDetail struct {
	VoterName  string `json:"voter_name"`
	TargetName string `json:"target_name"`
}

// GameResult describes the outcome of one resolved round.
type GameResult struct {
	GameOver       bool         `json:"game_over"`
	Winner         string       `json:"winner,omitempty"`
	EliminatedID   string       `json:"eliminated_id,omitempty"`
	EliminatedName string       `json:"eliminated_name,omitempty"`
	IsTie          bool         `json:"is_tie"`
	ImpostorID     string       `json:"impostor_id"`
	ImpostorName   string       `json:"impostor_name"`
	SecretWord     string       `json:"secret_word"`
	Votes          []VoteDetail `json:"votes"`
}

// Lobby is one game session. Every field is guarded by mu, which is held
// for the whole duration of an action.
type Lobby struct {
	Code       string
	Players    []*Player // join order
	Phase      Phase
	SecretWord string
	ImpostorID string
	Votes      []Vote
	LastResult *GameResult

	mu     sync.Mutex
	closed bool // removed from the registry
}

func newLobby(code string, host *Player) *Lobby {
	host.IsHost = true

	return &Lobby{
		Code:    code,
		Players: []*Player{host},
		Phase:   PhaseWaiting,
	}
}

func (l *Lobby) player(id string) *Player {
	for _, p := range l.Players {
		if p.ID == id {
			return p
		}
	}
	return nil
}

func (l *Lobby) playerByName(name string) *Player {
	for _, p := range l.Players {
		if p.Name == name {
			return p
		}
	}
	return nil
}

func (l *Lobby) host() *Player {
	for _, p := range l.Players {
		if p.IsHost {
			return p
		}
	}
	return nil
}

// removeLocked drops p from the player list and hands the host role on if
// needed. It reports whether the lobby is now empty.
func (l *Lobby) removeLocked(p *Player) bool {
	dst := l.Players[:0]
	for _, other := range l.Players {
		if other.ID == p.ID {
			continue
		}
		dst = append(dst, other)
	}
	clear(l.Players[len(dst):])
	l.Players = dst

	if len(l.Players) == 0 {
		return true
	}

	if p.IsHost {
		l.promoteHostLocked()
	}

	return false
}

// promoteHostLocked picks the first connected player in join order, falling
// back to the first player.
func (l *Lobby) promoteHostLocked() {
	next := l.Players[0]
	for _, p := range l.Players {
		if !p.IsDisconnected {
			next = p
			break
		}
	}

	for _, p := range l.Players {
		p.IsHost = p == next
	}
}

func (l *Lobby) allReadyLocked() bool {
	for _, p := range l.Players {
		if !p.IsReady {
			return false
		}
	}
	return true
}

func (l *Lobby) allActiveVotedLocked() bool {
	for _, p := range l.Players {
		if p.IsEliminated {
			continue
		}
		if !p.HasVoted {
			return false
		}
	}
	return true
}

// dropVotesLocked discards votes cast by or for a player who left. Voters
// whose target left may vote again.
func (l *Lobby) dropVotesLocked(playerID string) {
	kept := l.Votes[:0]
	for _, v := range l.Votes {
		if v.VoterID == playerID {
			continue
		}
		if v.TargetID == playerID {
			if voter := l.player(v.VoterID); voter != nil {
				voter.HasVoted = false
			}
			continue
		}
		kept = append(kept, v)
	}
	l.Votes = kept
}

// resetLocked returns the lobby to the waiting phase, keeping membership and
// the current host.
func (l *Lobby) resetLocked() {
	l.Phase = PhaseWaiting
	l.SecretWord = ""
	l.ImpostorID = ""
	l.Votes = nil
	l.LastResult = nil

	for _, p := range l.Players {
		p.IsImpostor = false
		p.SecretWord = ""
		p.HasVoted = false
		p.IsReady = false
		p.IsEliminated = false
	}
}

// PlayerView is the public part of a player.
type PlayerView struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	IsHost         bool   `json:"is_host"`
	HasVoted       bool   `json:"has_voted"`
	IsReady        bool   `json:"is_ready"`
	IsDisconnected bool   `json:"is_disconnected"`
	IsEliminated   bool   `json:"is_eliminated"`
}

// LobbyView is the sanitized snapshot broadcast to every member. It never
// carries the secret word, the impostor or in-progress votes.
type LobbyView struct {
	Code    string       `json:"code"`
	Phase   Phase        `json:"phase"`
	Players []PlayerView `json:"players"`
}

func (l *Lobby) viewLocked() LobbyView {
	players := make([]PlayerView, 0, len(l.Players))
	for _, p := range l.Players {
		players = append(players, PlayerView{
			ID:             p.ID,
			Name:           p.Name,
			IsHost:         p.IsHost,
			HasVoted:       p.HasVoted,
			IsReady:        p.IsReady,
			IsDisconnected: p.IsDisconnected,
			IsEliminated:   p.IsEliminated,
		})
	}

	return LobbyView{
		Code:    l.Code,
		Phase:   l.Phase,
		Players: players,
	}
}
