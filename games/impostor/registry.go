/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
)

const (
	// CodeLength is the length of generated lobby codes.
	CodeLength = 6

	// CodeChars excludes 0, O, 1 and I.
	CodeChars = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

	maxCodeAttempts = 64
)

// GenerateCode returns a random lobby code using crypto/rand.
func GenerateCode() (string, error) {
	code := make([]byte, CodeLength)
	for i := range code {
		n, err := rand.Int(rand.Reader, big.NewInt(int64(len(CodeChars))))
		if err != nil {
			return "", err
		}
		code[i] = CodeChars[n.Int64()]
	}
	return string(code), nil
}

// NormalizeCode makes typed codes case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// Registry holds the set of live lobbies keyed by code, so each code is its
// own isolated session.
type Registry struct {
	mu      sync.RWMutex
	lobbies map[string]*Lobby
	newCode func() (string, error)
}

func NewRegistry() *Registry {
	return &Registry{
		lobbies: make(map[string]*Lobby),
		newCode: GenerateCode,
	}
}

// Create registers a new lobby hosted by host under an unused code.
func (r *Registry) Create(host *Player) (*Lobby, error) {
	for range maxCodeAttempts {
		code, err := r.newCode()
		if err != nil {
			continue
		}

		r.mu.Lock()
		if _, exists := r.lobbies[code]; exists {
			r.mu.Unlock()
			continue
		}
		lobby := newLobby(code, host)
		r.lobbies[code] = lobby
		r.mu.Unlock()

		return lobby, nil
	}

	return nil, fmt.Errorf("%w: gave up after %d attempts", ErrExhausted, maxCodeAttempts)
}

func (r *Registry) Get(code string) (*Lobby, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	lobby, ok := r.lobbies[code]
	return lobby, ok
}

// destroy must be called with the lobby's lock held.
func (r *Registry) destroy(lobby *Lobby) {
	lobby.closed = true

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.lobbies[lobby.Code] == lobby {
		delete(r.lobbies, lobby.Code)
	}
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.lobbies)
}
