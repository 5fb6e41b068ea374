package server

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/wastelandgames/wasteland-server-go/internal/game"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"github.com/wastelandgames/wasteland-server-go/internal/match"
	"go.uber.org/zap"
)

// Hub tracks connected clients and fans match state out to the seats
// that are allowed to see it.
type Hub struct {
	logger     *zap.Logger
	manager    *match.Manager
	register   chan *Client
	unregister chan *Client

	mu      sync.RWMutex
	clients map[*Client]bool
}

// NewHub creates a hub over the given match manager.
func NewHub(manager *match.Manager, logger *zap.Logger) *Hub {
	return &Hub{
		logger:     logger,
		manager:    manager,
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
	}
}

// Run owns the client set until the context ends.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			h.logger.Debug("client registered", zap.String("player", client.playerName))

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.send)
			}
			h.mu.Unlock()
			h.logger.Debug("client unregistered", zap.String("player", client.playerName))

		case <-ctx.Done():
			h.mu.Lock()
			for client := range h.clients {
				close(client.send)
				delete(h.clients, client)
			}
			h.mu.Unlock()
			return
		}
	}
}

// BroadcastMatch pushes each seat its own sanitized view of a match.
func (h *Hub) BroadcastMatch(matchID string) {
	m, exists := h.manager.GetMatch(matchID)
	if !exists {
		return
	}

	views := map[state.Side][]byte{}
	for _, side := range []state.Side{state.SideLeft, state.SideRight} {
		payload, err := json.Marshal(Envelope{
			Type: MsgMatchState,
			Data: mustJSON(m.Engine.View(side)),
		})
		if err != nil {
			h.logger.Error("failed to encode match view", zap.Error(err))
			continue
		}
		views[side] = payload
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for client := range h.clients {
		if client.matchID != matchID {
			continue
		}
		payload, ok := views[client.side]
		if !ok {
			continue
		}
		select {
		case client.send <- payload:
		default:
			// Slow consumer; the write pump will notice the closed
			// connection on its own.
		}
	}
}

func mustJSON(v any) json.RawMessage {
	data, err := json.Marshal(v)
	if err != nil {
		return json.RawMessage("{}")
	}
	return data
}

// ViewForSeat builds a direct state push for one client.
func ViewForSeat(e *game.Engine, side state.Side) ([]byte, error) {
	return json.Marshal(Envelope{
		Type: MsgMatchState,
		Data: mustJSON(e.View(side)),
	})
}
