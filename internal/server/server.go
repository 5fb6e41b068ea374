package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/wastelandgames/wasteland-server-go/internal/config"
	"github.com/wastelandgames/wasteland-server-go/internal/game"
	"github.com/wastelandgames/wasteland-server-go/internal/match"
	"github.com/wastelandgames/wasteland-server-go/internal/repository"
	"go.uber.org/zap"
)

// SnapshotStore is the persistence surface the gateway needs: save the
// latest state of a match after every accepted command.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, rec repository.MatchRecord) error
}

// Server is the websocket gateway: it upgrades connections, routes
// messages to the match manager and pushes sanitized state back out.
type Server struct {
	cfg      config.ServerConfig
	logger   *zap.Logger
	manager  *match.Manager
	store    SnapshotStore
	hub      *Hub
	upgrader websocket.Upgrader
	httpSrv  *http.Server
}

// NewServer wires the gateway. The store may be nil to run without
// persistence.
func NewServer(cfg config.ServerConfig, manager *match.Manager, store SnapshotStore, logger *zap.Logger) *Server {
	s := &Server{
		cfg:     cfg,
		logger:  logger,
		manager: manager,
		store:   store,
		hub:     NewHub(manager, logger),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.WebSocket.ReadBufferSize,
			WriteBufferSize: cfg.WebSocket.WriteBufferSize,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
	}
	return s
}

// Start runs the hub and the HTTP listener until the context ends,
// then shuts the listener down gracefully.
func (s *Server) Start(ctx context.Context) error {
	go s.hub.Run(ctx)

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", func(w http.ResponseWriter, r *http.Request) {
		s.serveWS(ctx, w, r)
	})
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s.httpSrv = &http.Server{
		Addr:    s.cfg.WebSocket.Address,
		Handler: mux,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("websocket gateway listening",
			zap.String("address", s.cfg.WebSocket.Address))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}

func (s *Server) serveWS(ctx context.Context, w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}
	client := &Client{
		server: s,
		conn:   conn,
		send:   make(chan []byte, 256),
	}
	s.hub.register <- client

	go client.writePump(s.cfg.WebSocket.WriteTimeout, s.cfg.WebSocket.PingInterval)
	go client.readPump(ctx)
}

func (s *Server) handleMessage(ctx context.Context, c *Client, msg Envelope) {
	switch msg.Type {
	case MsgCreateMatch:
		s.handleCreate(c, msg)
	case MsgJoinMatch:
		s.handleJoin(c, msg)
	case MsgListMatches:
		s.handleList(c)
	case MsgCommand:
		s.handleCommand(ctx, c, msg)
	default:
		c.sendError("unknown message type")
	}
}

func (s *Server) handleCreate(c *Client, msg Envelope) {
	if msg.PlayerName == "" {
		c.sendError("a player name is required")
		return
	}
	m := s.manager.CreateMatch(msg.PlayerName)
	c.playerName = msg.PlayerName
	c.matchID = m.Engine.State().MatchID
	c.side, _ = m.Seat(msg.PlayerName)
	c.sendView(m.Engine)
}

func (s *Server) handleJoin(c *Client, msg Envelope) {
	if msg.PlayerName == "" || msg.MatchID == "" {
		c.sendError("a player name and match id are required")
		return
	}
	side, m, err := s.manager.JoinMatch(msg.MatchID, msg.PlayerName)
	if err != nil {
		c.sendError(err.Error())
		return
	}
	c.playerName = msg.PlayerName
	c.matchID = msg.MatchID
	c.side = side
	c.sendView(m.Engine)
}

func (s *Server) handleList(c *Client) {
	c.sendEnvelope(Envelope{
		Type: MsgMatchList,
		Data: mustJSON(s.manager.ListMatches()),
	})
}

func (s *Server) handleCommand(ctx context.Context, c *Client, msg Envelope) {
	if c.matchID == "" {
		c.sendError("join a match first")
		return
	}
	m, exists := s.manager.GetMatch(c.matchID)
	if !exists {
		c.sendError("the match no longer exists")
		return
	}
	var cmd game.Command
	if err := json.Unmarshal(msg.Data, &cmd); err != nil {
		c.sendError("malformed command")
		return
	}
	// The connection's seat is authoritative; clients cannot act for
	// the other side.
	cmd.PlayerID = c.side

	result := m.Engine.Execute(cmd)
	if !result.Success {
		c.sendEnvelope(Envelope{Type: MsgCommandError, Error: result.Error})
		return
	}
	s.persist(ctx, m)
	s.hub.BroadcastMatch(c.matchID)
}

// persist writes the latest snapshot through the store, best effort.
func (s *Server) persist(ctx context.Context, m *match.Match) {
	if s.store == nil {
		return
	}
	gs := m.Engine.State()
	data, err := game.Snapshot(gs)
	if err != nil {
		s.logger.Error("failed to snapshot match",
			zap.String("match_id", gs.MatchID), zap.Error(err))
		return
	}
	checksum, err := game.ComputeChecksum(gs)
	if err != nil {
		s.logger.Error("failed to checksum match",
			zap.String("match_id", gs.MatchID), zap.Error(err))
		return
	}

	saveCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	rec := repository.MatchRecord{
		MatchID:  gs.MatchID,
		Turn:     gs.TurnNumber,
		State:    data,
		Checksum: checksum.Hash,
		Winner:   gs.Winner,
	}
	if err := s.store.SaveSnapshot(saveCtx, rec); err != nil {
		s.logger.Error("failed to persist match snapshot",
			zap.String("match_id", gs.MatchID), zap.Error(err))
	}
}
