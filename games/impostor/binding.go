/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import "sync"

// Binding ties a connection to one player in one lobby.
type Binding struct {
	Code     string
	PlayerID string
}

// Bindings is the only place that translates connection ids into logical
// players.
type Bindings struct {
	mu    sync.RWMutex
	conns map[string]Binding
}

func NewBindings() *Bindings {
	return &Bindings{
		conns: make(map[string]Binding),
	}
}

func (b *Bindings) Lookup(connID string) (Binding, bool) {
	if connID == "" {
		return Binding{}, false
	}

	b.mu.RLock()
	defer b.mu.RUnlock()

	binding, ok := b.conns[connID]
	return binding, ok
}

func (b *Bindings) Bind(connID, code, playerID string) {
	if connID == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.conns[connID] = Binding{Code: code, PlayerID: playerID}
}

// Unbind removes connID, but only while it still points at the given
// player. A connection that has since been bound elsewhere is left alone.
func (b *Bindings) Unbind(connID, playerID string) {
	if connID == "" {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if binding, ok := b.conns[connID]; ok && binding.PlayerID == playerID {
		delete(b.conns, connID)
	}
}

func (b *Bindings) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()

	return len(b.conns)
}
