/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Package impostor implements the Impostor party game.
//
// Players gather in a lobby identified by a six character code. When the
// host starts the game, every player but one receives the same secret word;
// the remaining player is the impostor and receives nothing. Everyone
// confirms they have seen their role, then the lobby votes on who they
// believe the impostor is.
//
// Features:
//   - Lobby codes drawn from an alphabet without look-alike characters
//   - Host-only start, next round, restart, kick and close
//   - Host passes to the next connected player when the host leaves
//   - Strict plurality eliminates; ties eliminate nobody
//   - Players win when the impostor is eliminated; the impostor wins once
//     at most one innocent remains active
//   - Disconnected players keep their seat until they leave, are kicked or
//     the lobby closes, and can rejoin by lobby code and name
//   - Roles are only ever sent to the player they belong to
//
// The Engine is transport agnostic: it addresses connections by id through a
// Notifier, and every action against a lobby runs under that lobby's lock.
package impostor

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	// MinPlayers is the minimum number of players required to start a game.
	MinPlayers = 3

	// MaxNameLength is measured in runes.
	MaxNameLength = 32
)

// Notifier delivers messages to a single connection. Send must not block:
// it is called while a lobby lock is held.
type Notifier interface {
	Send(connID string, msg any)
}

type Option func(*Engine)

func WithLogger(log zerolog.Logger) Option {
	return func(e *Engine) {
		e.log = log
	}
}

// WithWords sets the candidate secret words. An empty list is ignored.
func WithWords(words []string) Option {
	return func(e *Engine) {
		if len(words) > 0 {
			e.words = words
		}
	}
}

func WithPicker(rng Picker) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// Engine owns every live lobby and the bindings from connections to players.
type Engine struct {
	registry *Registry
	bindings *Bindings
	notifier Notifier
	words    []string
	rng      Picker
	log      zerolog.Logger
}

func New(notifier Notifier, opts ...Option) *Engine {
	e := &Engine{
		registry: NewRegistry(),
		bindings: NewBindings(),
		notifier: notifier,
		words:    DefaultWords,
		rng:      globalPicker{},
		log:      zerolog.Nop(),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Handle dispatches one inbound message. A rejected action is reported to
// connID only, and the error is returned.
func (e *Engine) Handle(connID string, msg ClientMessage) error {
	var err error

	switch msg.Type {
	case TypeCreateLobby:
		_, _, err = e.CreateLobby(connID, msg.Name)
	case TypeJoinLobby:
		_, err = e.JoinLobby(connID, msg.Code, msg.Name)
	case TypeStartGame:
		err = e.StartGame(connID)
	case TypePlayerReady:
		err = e.PlayerReady(connID)
	case TypeCastVote:
		err = e.CastVote(connID, msg.Target)
	case TypeNextRound:
		err = e.NextRound(connID)
	case TypeRestartGame:
		err = e.RestartGame(connID)
	case TypeLeaveLobby:
		err = e.LeaveLobby(connID)
	case TypeCloseLobby:
		err = e.CloseLobby(connID)
	case TypeKickPlayer:
		err = e.KickPlayer(connID, msg.Target)
	case TypeRejoinLobby:
		_, err = e.RejoinLobby(connID, msg.Code, msg.Name)
	default:
		err = errorf(ErrInvalidState, "unknown message type %q", msg.Type)
	}

	if err != nil {
		if ErrorKind(err) == KindInternal {
			e.log.Error().Err(err).Str("conn", connID).Str("type", msg.Type).Msg("action failed")
		} else {
			e.log.Debug().Err(err).Str("conn", connID).Str("type", msg.Type).Msg("action rejected")
		}
		e.notifier.Send(connID, NewErrorMessage(err))
	}

	return err
}

// Lobby returns a sanitized snapshot of a live lobby.
func (e *Engine) Lobby(code string) (LobbyView, bool) {
	lobby, ok := e.registry.Get(NormalizeCode(code))
	if !ok {
		return LobbyView{}, false
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	if lobby.closed {
		return LobbyView{}, false
	}

	return lobby.viewLocked(), true
}

func (e *Engine) CreateLobby(connID, name string) (code, playerID string, err error) {
	name, err = validateName(name)
	if err != nil {
		return "", "", err
	}

	if _, bound := e.bindings.Lookup(connID); bound {
		return "", "", errorf(ErrInvalidState, "you are already in a lobby")
	}

	host := &Player{
		ID:     uuid.NewString(),
		ConnID: connID,
		Name:   name,
	}

	lobby, err := e.registry.Create(host)
	if err != nil {
		return "", "", err
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	e.bindings.Bind(connID, lobby.Code, host.ID)

	e.notifier.Send(connID, SessionMessage{
		Type:     TypeLobbyCreated,
		Code:     lobby.Code,
		PlayerID: host.ID,
		Name:     host.Name,
	})
	e.broadcastLobbyLocked(lobby, TypeLobbyUpdated)

	e.log.Info().Str("lobby", lobby.Code).Str("player", name).Msg("lobby created")

	return lobby.Code, host.ID, nil
}

func (e *Engine) JoinLobby(connID, code, name string) (string, error) {
	name, err := validateName(name)
	if err != nil {
		return "", err
	}

	if _, bound := e.bindings.Lookup(connID); bound {
		return "", errorf(ErrInvalidState, "you are already in a lobby")
	}

	code = NormalizeCode(code)

	lobby, ok := e.registry.Get(code)
	if !ok {
		return "", errorf(ErrNotFound, "lobby %s not found", code)
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	if lobby.closed {
		return "", errorf(ErrNotFound, "lobby %s not found", code)
	}

	if lobby.Phase != PhaseWaiting {
		return "", errorf(ErrInvalidState, "game already in progress")
	}

	if lobby.playerByName(name) != nil {
		return "", ErrNameTaken
	}

	player := &Player{
		ID:     uuid.NewString(),
		ConnID: connID,
		Name:   name,
	}
	lobby.Players = append(lobby.Players, player)

	e.bindings.Bind(connID, lobby.Code, player.ID)

	e.notifier.Send(connID, SessionMessage{
		Type:     TypeLobbyJoined,
		Code:     lobby.Code,
		PlayerID: player.ID,
		Name:     player.Name,
	})
	e.broadcastLobbyLocked(lobby, TypeLobbyUpdated)

	e.log.Info().Str("lobby", lobby.Code).Str("player", name).Msg("player joined")

	return player.ID, nil
}

func (e *Engine) StartGame(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if !p.IsHost {
			return errorf(ErrForbidden, "only the host can start the game")
		}

		if l.Phase != PhaseWaiting {
			return errorf(ErrInvalidState, "game already in progress")
		}

		if len(l.Players) < MinPlayers {
			return errorf(ErrInvalidState, "need at least %d players to start", MinPlayers)
		}

		assignRolesLocked(l, e.words, e.rng)
		l.Phase = PhaseReveal

		for _, player := range l.Players {
			if player.ConnID != "" {
				e.notifier.Send(player.ConnID, roleMessage(player))
			}
		}
		e.broadcastLobbyLocked(l, TypeGameStarted)

		e.log.Info().Str("lobby", l.Code).Int("players", len(l.Players)).Msg("game started")

		return nil
	})
}

func (e *Engine) PlayerReady(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if l.Phase != PhaseReveal {
			return errorf(ErrInvalidState, "roles are not being revealed")
		}

		if p.IsReady {
			return nil
		}
		p.IsReady = true

		e.broadcastLobbyLocked(l, TypeLobbyUpdated)
		e.checkReadyLocked(l)

		return nil
	})
}

func (e *Engine) CastVote(connID, targetID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if l.Phase != PhaseVoting {
			return errorf(ErrInvalidState, "voting is not open")
		}

		if p.IsEliminated {
			return errorf(ErrInvalidState, "eliminated players cannot vote")
		}

		if p.HasVoted {
			return nil
		}

		if err := validateVoteLocked(l, p, targetID); err != nil {
			return err
		}

		p.HasVoted = true
		l.Votes = append(l.Votes, Vote{VoterID: p.ID, TargetID: targetID})

		e.broadcastLobbyLocked(l, TypeVoteUpdate)
		e.log.Debug().Str("lobby", l.Code).Str("player", p.Name).Msg("vote recorded")

		e.checkTallyLocked(l)

		return nil
	})
}

func (e *Engine) NextRound(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if !p.IsHost {
			return errorf(ErrForbidden, "only the host can start the next round")
		}

		if l.Phase != PhaseRoundResults {
			return errorf(ErrInvalidState, "the round is not over")
		}

		l.Phase = PhaseVoting
		l.Votes = nil
		l.LastResult = nil
		for _, player := range l.Players {
			player.HasVoted = false
		}

		e.broadcastLobbyLocked(l, TypeVotingStarted)
		e.log.Info().Str("lobby", l.Code).Msg("next round started")

		return nil
	})
}

func (e *Engine) RestartGame(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if !p.IsHost {
			return errorf(ErrForbidden, "only the host can restart the game")
		}

		if l.Phase != PhaseResults {
			return errorf(ErrInvalidState, "the game is not over")
		}

		l.resetLocked()

		e.broadcastLobbyLocked(l, TypeLobbyUpdated)
		e.log.Info().Str("lobby", l.Code).Msg("game restarted")

		return nil
	})
}

func (e *Engine) LeaveLobby(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		e.removePlayerLocked(l, p, "left")

		return nil
	})
}

func (e *Engine) KickPlayer(connID, targetID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if !p.IsHost {
			return errorf(ErrForbidden, "only the host can kick players")
		}

		if targetID == p.ID {
			return errorf(ErrForbidden, "you cannot kick yourself")
		}

		target := l.player(targetID)
		if target == nil {
			return errorf(ErrNotFound, "player not found")
		}

		if target.ConnID != "" {
			e.notifier.Send(target.ConnID, NoticeMessage{
				Type:    TypeKicked,
				Message: "You have been removed by the host.",
			})
		}

		e.removePlayerLocked(l, target, "kicked")

		return nil
	})
}

func (e *Engine) CloseLobby(connID string) error {
	return e.withPlayer(connID, func(l *Lobby, p *Player) error {
		if !p.IsHost {
			return errorf(ErrForbidden, "only the host can close the lobby")
		}

		notice := NoticeMessage{
			Type:    TypeLobbyClosed,
			Message: "The host has closed the lobby.",
		}
		for _, player := range l.Players {
			if player.ConnID != "" {
				e.notifier.Send(player.ConnID, notice)
			}
			e.bindings.Unbind(player.ConnID, player.ID)
		}

		e.registry.destroy(l)
		e.log.Info().Str("lobby", l.Code).Str("player", p.Name).Msg("lobby closed by host")

		return nil
	})
}

// withPlayer resolves the caller's binding, locks its lobby and runs fn with
// the caller. Connections that were superseded by a rejoin are rejected
// here, after the lock is taken.
func (e *Engine) withPlayer(connID string, fn func(l *Lobby, p *Player) error) error {
	binding, ok := e.bindings.Lookup(connID)
	if !ok {
		return errorf(ErrNotFound, "you are not in a lobby")
	}

	lobby, ok := e.registry.Get(binding.Code)
	if !ok {
		e.bindings.Unbind(connID, binding.PlayerID)
		return errorf(ErrNotFound, "lobby %s not found", binding.Code)
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	if lobby.closed {
		return errorf(ErrNotFound, "lobby %s not found", binding.Code)
	}

	p := lobby.player(binding.PlayerID)
	if p == nil || p.ConnID != connID {
		return errorf(ErrNotFound, "you are not in this lobby")
	}

	return fn(lobby, p)
}

// removePlayerLocked takes p out of the lobby after a leave or kick and
// re-runs whatever automatic transition the remaining players now satisfy.
func (e *Engine) removePlayerLocked(l *Lobby, p *Player, reason string) {
	e.bindings.Unbind(p.ConnID, p.ID)

	gameActive := l.Phase != PhaseWaiting && l.Phase != PhaseResults
	wasImpostor := gameActive && p.ID == l.ImpostorID

	if l.removeLocked(p) {
		e.registry.destroy(l)
		e.log.Info().Str("lobby", l.Code).Msg("lobby deleted (empty)")
		return
	}

	e.log.Info().Str("lobby", l.Code).Str("player", p.Name).Str("reason", reason).Msg("player removed")

	switch {
	case wasImpostor:
		l.resetLocked()
		e.log.Info().Str("lobby", l.Code).Msg("impostor removed, game reset")
	case l.Phase == PhaseVoting:
		l.dropVotesLocked(p.ID)
	}

	e.broadcastLobbyLocked(l, TypeLobbyUpdated)

	if gameActive && !wasImpostor {
		if impostor, innocents := activeLocked(l); impostor && innocents == 0 {
			e.endRoundLocked(l, resolveLocked(l))
			return
		}
	}

	switch l.Phase {
	case PhaseReveal:
		e.checkReadyLocked(l)
	case PhaseVoting:
		e.checkTallyLocked(l)
	}
}

// checkReadyLocked opens voting once every player has seen their role.
func (e *Engine) checkReadyLocked(l *Lobby) {
	if l.Phase != PhaseReveal || !l.allReadyLocked() {
		return
	}

	l.Phase = PhaseVoting

	e.broadcastLobbyLocked(l, TypeVotingStarted)
	e.log.Info().Str("lobby", l.Code).Msg("voting started")
}

// checkTallyLocked resolves the round once every active player has voted.
func (e *Engine) checkTallyLocked(l *Lobby) {
	if l.Phase != PhaseVoting || !l.allActiveVotedLocked() {
		return
	}

	e.endRoundLocked(l, tallyLocked(l))
}

// endRoundLocked records result, moves to the matching phase and
// broadcasts it.
func (e *Engine) endRoundLocked(l *Lobby, result *GameResult) {
	l.LastResult = result

	msgType := TypeRoundEnded
	l.Phase = PhaseRoundResults
	if result.GameOver {
		msgType = TypeGameEnded
		l.Phase = PhaseResults
	}

	e.broadcastLocked(l, ResultMessage{
		Type:   msgType,
		Lobby:  l.viewLocked(),
		Result: *result,
	})

	if result.GameOver {
		e.log.Info().Str("lobby", l.Code).Str("winner", result.Winner).Msg("game ended")
	} else {
		e.log.Info().Str("lobby", l.Code).Str("eliminated", result.EliminatedName).Bool("tie", result.IsTie).Msg("round ended")
	}
}

func (e *Engine) broadcastLocked(l *Lobby, msg any) {
	for _, p := range l.Players {
		if p.ConnID != "" {
			e.notifier.Send(p.ConnID, msg)
		}
	}
}

func (e *Engine) broadcastLobbyLocked(l *Lobby, msgType string) {
	e.broadcastLocked(l, LobbyMessage{
		Type:  msgType,
		Lobby: l.viewLocked(),
	})
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)

	if name == "" {
		return "", errorf(ErrInvalidName, "name is required")
	}

	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", errorf(ErrInvalidName, "name must be at most %d characters", MaxNameLength)
	}

	return name, nil
}
