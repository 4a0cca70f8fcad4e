/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"strings"
)

// RejoinLobby rebinds an existing player, found by name, to connID and
// replays whatever the new connection missed. The previous connection loses
// its binding and can no longer act for the player.
func (e *Engine) RejoinLobby(connID, code, name string) (string, error) {
	code = NormalizeCode(code)
	name = strings.TrimSpace(name)

	lobby, ok := e.registry.Get(code)
	if !ok {
		return "", ErrLobbyGone
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	if lobby.closed {
		return "", ErrLobbyGone
	}

	p := lobby.playerByName(name)
	if p == nil {
		return "", errorf(ErrNotFound, "player %q not found in lobby %s", name, code)
	}

	if binding, bound := e.bindings.Lookup(connID); bound && binding.PlayerID != p.ID {
		return "", errorf(ErrInvalidState, "you are already in a lobby")
	}

	if p.ConnID != connID {
		e.bindings.Unbind(p.ConnID, p.ID)
	}

	p.ConnID = connID
	p.IsDisconnected = false
	e.bindings.Bind(connID, lobby.Code, p.ID)

	e.notifier.Send(connID, SessionMessage{
		Type:     TypeLobbyJoined,
		Code:     lobby.Code,
		PlayerID: p.ID,
		Name:     p.Name,
	})

	if lobby.Phase != PhaseWaiting {
		e.notifier.Send(connID, roleMessage(p))
	}

	if lobby.LastResult != nil {
		switch lobby.Phase {
		case PhaseRoundResults:
			e.notifier.Send(connID, ResultMessage{Type: TypeRoundEnded, Lobby: lobby.viewLocked(), Result: *lobby.LastResult})
		case PhaseResults:
			e.notifier.Send(connID, ResultMessage{Type: TypeGameEnded, Lobby: lobby.viewLocked(), Result: *lobby.LastResult})
		}
	}

	e.broadcastLobbyLocked(lobby, TypeLobbyUpdated)

	e.log.Info().Str("lobby", lobby.Code).Str("player", p.Name).Msg("player rejoined")

	return p.ID, nil
}

// Disconnect marks the player bound to connID as disconnected. The player
// keeps their seat; nothing is ever purged on a timer.
func (e *Engine) Disconnect(connID string) {
	binding, ok := e.bindings.Lookup(connID)
	if !ok {
		return
	}

	lobby, ok := e.registry.Get(binding.Code)
	if !ok {
		e.bindings.Unbind(connID, binding.PlayerID)
		return
	}

	lobby.mu.Lock()
	defer lobby.mu.Unlock()

	e.bindings.Unbind(connID, binding.PlayerID)

	if lobby.closed {
		return
	}

	p := lobby.player(binding.PlayerID)
	if p == nil || p.ConnID != connID {
		return
	}

	p.ConnID = ""
	p.IsDisconnected = true

	e.broadcastLobbyLocked(lobby, TypeLobbyUpdated)

	e.log.Info().Str("lobby", lobby.Code).Str("player", p.Name).Msg("player disconnected")
}
