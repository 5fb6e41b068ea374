package server

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wastelandgames/wasteland-server-go/internal/game"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Message types spoken over the gateway.
const (
	// Client to server.
	MsgCreateMatch = "create_match"
	MsgJoinMatch   = "join_match"
	MsgListMatches = "list_matches"
	MsgCommand     = "command"

	// Server to client.
	MsgMatchState   = "match_state"
	MsgMatchList    = "match_list"
	MsgCommandError = "command_error"
	MsgError        = "error"
)

// Envelope frames every message in both directions.
type Envelope struct {
	Type       string          `json:"type"`
	MatchID    string          `json:"matchId,omitempty"`
	PlayerName string          `json:"playerName,omitempty"`
	Data       json.RawMessage `json:"data,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Client is one websocket connection bound to at most one seat of one
// match.
type Client struct {
	server *Server
	conn   *websocket.Conn
	send   chan []byte

	playerName string
	matchID    string
	side       state.Side
}

func (c *Client) readPump(ctx context.Context) {
	defer func() {
		c.server.hub.unregister <- c
		c.conn.Close()
	}()

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}
		var msg Envelope
		if err := json.Unmarshal(raw, &msg); err != nil {
			c.sendError("malformed message")
			continue
		}
		c.server.handleMessage(ctx, c, msg)
	}
}

func (c *Client) writePump(writeTimeout, pingInterval time.Duration) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, open := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !open {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) sendError(reason string) {
	payload, err := json.Marshal(Envelope{Type: MsgError, Error: reason})
	if err != nil {
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) sendEnvelope(env Envelope) {
	payload, err := json.Marshal(env)
	if err != nil {
		c.server.logger.Error("failed to encode envelope", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}

// sendView pushes the client its current match view directly, for
// joins and reconnects before any broadcast fires.
func (c *Client) sendView(e *game.Engine) {
	payload, err := ViewForSeat(e, c.side)
	if err != nil {
		c.server.logger.Error("failed to encode match view", zap.Error(err))
		return
	}
	select {
	case c.send <- payload:
	default:
	}
}
