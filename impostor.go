/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

// Impostor Game
//
// Every player but one learns a secret word. The odd one out, the impostor,
// has to bluff their way through the discussion while everyone else tries to
// vote them out.
//
// Features:
// - A single WebSocket endpoint: /ws; lobbies are chosen by code inside the protocol
// - Every connection gets a random id; players are bound to connections by the engine
// - Dropped connections keep their seat and can rejoin by lobby code and name
// - Per-connection message rate limiting
// - Slow clients whose send buffer fills up are disconnected
// - PNG QR code for sharing a lobby code, backed by go-qrcode

package main

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
	"golang.org/x/time/rate"

	"github.com/Seednode/impostor/games/impostor"
)

const (
	sendBufferSize = 32
	maxMessageSize = 4096
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
)

// Transport-level error kinds, alongside the engine's own.
const (
	kindBadRequest  = "bad_request"
	kindRateLimited = "rate_limited"
)

type Client struct {
	id      string
	conn    *websocket.Conn
	send    chan any
	limiter *rate.Limiter

	done      chan struct{}
	closeOnce sync.Once
}

func (c *Client) close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// GameServer connects websocket clients to the engine. It is the engine's
// Notifier.
type GameServer struct {
	cfg    *Config
	engine *impostor.Engine

	mu      sync.RWMutex
	clients map[string]*Client
}

func newGameServer(cfg *Config, words []string) *GameServer {
	gs := &GameServer{
		cfg:     cfg,
		clients: make(map[string]*Client),
	}

	gs.engine = impostor.New(gs,
		impostor.WithLogger(cfg.log.With().Str("component", "engine").Logger()),
		impostor.WithWords(words),
	)

	return gs
}

// Send queues msg for connID without blocking. A client that cannot keep up
// is disconnected.
func (gs *GameServer) Send(connID string, msg any) {
	gs.mu.RLock()
	c, ok := gs.clients[connID]
	gs.mu.RUnlock()

	if !ok {
		return
	}

	select {
	case <-c.done:
		return
	default:
	}

	select {
	case c.send <- msg:
	default:
		gs.cfg.log.Warn().Str("conn", connID).Msg("GAMES: Send buffer full, dropping client")
		c.close()
	}
}

func (gs *GameServer) register(c *Client) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	gs.clients[c.id] = c
}

func (gs *GameServer) unregister(c *Client) {
	gs.mu.Lock()
	defer gs.mu.Unlock()

	if gs.clients[c.id] == c {
		delete(gs.clients, c.id)
	}
}

// closeAll disconnects every client (used on shutdown).
func (gs *GameServer) closeAll() {
	gs.mu.RLock()
	clients := make([]*Client, 0, len(gs.clients))
	for _, c := range gs.clients {
		clients = append(clients, c)
	}
	gs.mu.RUnlock()

	for _, c := range clients {
		c.close()
	}
}

func (gs *GameServer) clientCount() int {
	gs.mu.RLock()
	defer gs.mu.RUnlock()

	return len(gs.clients)
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

func serveWS(gs *GameServer) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			gs.cfg.log.Warn().Err(err).Str("remote", realIP(r)).Msg("SERVE: Upgrade failed")
			return
		}

		client := &Client{
			id:      uuid.NewString(),
			conn:    conn,
			send:    make(chan any, sendBufferSize),
			limiter: rate.NewLimiter(rate.Limit(gs.cfg.rateLimit), gs.cfg.rateBurst),
			done:    make(chan struct{}),
		}

		gs.register(client)

		logf(gs.cfg, "SERVE: Connection %s opened from %s (%d connected)", client.id, realIP(r), gs.clientCount())

		go client.writePump()
		gs.readPump(client)
	}
}

func (gs *GameServer) readPump(c *Client) {
	defer func() {
		gs.unregister(c)
		gs.engine.Disconnect(c.id)
		c.close()

		logf(gs.cfg, "SERVE: Connection %s closed", c.id)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		if !c.limiter.Allow() {
			gs.Send(c.id, impostor.ErrorMessage{
				Type:    impostor.TypeError,
				Kind:    kindRateLimited,
				Message: "You are sending messages too quickly.",
			})
			continue
		}

		var msg impostor.ClientMessage
		if err := json.Unmarshal(data, &msg); err != nil {
			gs.Send(c.id, impostor.ErrorMessage{
				Type:    impostor.TypeError,
				Kind:    kindBadRequest,
				Message: "Malformed message.",
			})
			continue
		}

		_ = gs.engine.Handle(c.id, msg)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.close()
	}()

	for {
		select {
		case msg := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-c.done:
			return
		}
	}
}

// requestScheme honors X-Forwarded-Proto only when it names http or https.
func requestScheme(r *http.Request) string {
	switch proto := strings.ToLower(r.Header.Get("X-Forwarded-Proto")); proto {
	case "http", "https":
		return proto
	}

	if r.TLS != nil {
		return "https"
	}
	return "http"
}

// QR handler: generates a PNG QR code pointing at the home page with the
// lobby code filled in.
func qrHandler(gs *GameServer) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, ps httprouter.Params) {
		view, ok := gs.engine.Lobby(ps.ByName("code"))
		if !ok {
			http.Error(w, "lobby not found", http.StatusNotFound)
			return
		}

		target := url.URL{
			Scheme:   requestScheme(r),
			Host:     r.Host,
			Path:     gs.cfg.prefix + "/",
			RawQuery: url.Values{"code": {view.Code}}.Encode(),
		}

		const qrSize = 320 // mobile-friendly size
		png, err := qrcode.Encode(target.String(), qrcode.Medium, qrSize)
		if err != nil {
			http.Error(w, "qr generation failed", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(gs.cfg, w)
		_, _ = w.Write(png)
	}
}

// registerImpostorGame sets up routes so that:
//   - $prefix/ws         → WebSocket carrying the game protocol
//   - $prefix/qr/:code   → PNG QR code for joining that lobby
func registerImpostorGame(cfg *Config, mux *httprouter.Router, gs *GameServer) {
	mux.GET(cfg.prefix+"/ws", serveWS(gs))

	mux.GET(cfg.prefix+"/qr/:code", qrHandler(gs))
}
