/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package impostor

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recorder is a Notifier that keeps every message per connection.
type recorder struct {
	mu   sync.Mutex
	msgs map[string][]any
}

func newRecorder() *recorder {
	return &recorder{msgs: make(map[string][]any)}
}

func (r *recorder) Send(connID string, msg any) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs[connID] = append(r.msgs[connID], msg)
}

func (r *recorder) all(connID string) []any {
	r.mu.Lock()
	defer r.mu.Unlock()

	return append([]any(nil), r.msgs[connID]...)
}

func (r *recorder) ofType(connID, msgType string) []any {
	var out []any
	for _, msg := range r.all(connID) {
		if typeOf(msg) == msgType {
			out = append(out, msg)
		}
	}
	return out
}

func (r *recorder) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.msgs = make(map[string][]any)
}

func typeOf(msg any) string {
	switch m := msg.(type) {
	case SessionMessage:
		return m.Type
	case LobbyMessage:
		return m.Type
	case RoleMessage:
		return m.Type
	case ResultMessage:
		return m.Type
	case NoticeMessage:
		return m.Type
	case ErrorMessage:
		return m.Type
	default:
		return ""
	}
}

// sequencePicker returns its values in order, wrapping around.
type sequencePicker struct {
	values []int
	next   int
}

func (s *sequencePicker) IntN(n int) int {
	v := s.values[s.next%len(s.values)]
	s.next++
	return v % n
}

// impostorAt makes the word pick 0 and the impostor pick idx.
func impostorAt(idx int) *sequencePicker {
	return &sequencePicker{values: []int{0, idx}}
}

func newTestEngine(t *testing.T, opts ...Option) (*Engine, *recorder) {
	t.Helper()

	rec := newRecorder()
	return New(rec, opts...), rec
}

// setupLobby creates a lobby hosted by names[0] and joins the rest. Each
// player's connection id is its name.
func setupLobby(t *testing.T, e *Engine, names ...string) (string, map[string]string) {
	t.Helper()

	ids := make(map[string]string, len(names))

	code, hostID, err := e.CreateLobby(names[0], names[0])
	require.NoError(t, err)
	ids[names[0]] = hostID

	for _, name := range names[1:] {
		id, err := e.JoinLobby(name, code, name)
		require.NoError(t, err)
		ids[name] = id
	}

	return code, ids
}

// startVoting starts the game and readies everyone.
func startVoting(t *testing.T, e *Engine, names ...string) {
	t.Helper()

	require.NoError(t, e.StartGame(names[0]))
	for _, name := range names {
		require.NoError(t, e.PlayerReady(name))
	}
}

func lobbyOf(t *testing.T, e *Engine, code string) *Lobby {
	t.Helper()

	lobby, ok := e.registry.Get(code)
	require.True(t, ok, "lobby %s should exist", code)
	return lobby
}

func requireSingleHost(t *testing.T, l *Lobby) {
	t.Helper()

	hosts := 0
	for _, p := range l.Players {
		if p.IsHost {
			hosts++
		}
	}
	if len(l.Players) > 0 {
		require.Equal(t, 1, hosts, "exactly one host expected")
	}
}
