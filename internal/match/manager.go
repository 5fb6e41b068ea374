package match

import (
	"fmt"
	"sync"
	"time"

	"github.com/wastelandgames/wasteland-server-go/internal/game"
	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"go.uber.org/zap"
)

// Match is one hosted game: the engine plus its seat assignments.
type Match struct {
	Engine    *game.Engine
	CreatedAt time.Time

	mu    sync.RWMutex
	seats map[state.Side]string
}

// Seat returns the side assigned to the player, if any.
func (m *Match) Seat(playerName string) (state.Side, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for side, name := range m.seats {
		if name == playerName {
			return side, true
		}
	}
	return "", false
}

// PlayerAt returns the player seated at the side.
func (m *Match) PlayerAt(side state.Side) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	name, ok := m.seats[side]
	return name, ok
}

// Full reports whether both seats are taken.
func (m *Match) Full() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.seats) == 2
}

// Snapshot captures lobby-facing match data.
type Snapshot struct {
	MatchID   string
	Players   []string
	Phase     state.Phase
	Winner    string
	CreatedAt time.Time
}

// Manager hosts the live matches of one server process.
type Manager struct {
	logger   *zap.Logger
	registry *abilities.Registry
	recorder *game.ReplayRecorder

	mu      sync.RWMutex
	matches map[string]*Match
}

// NewManager creates a match manager. The recorder may be nil to
// disable replay capture.
func NewManager(registry *abilities.Registry, recorder *game.ReplayRecorder, logger *zap.Logger) *Manager {
	return &Manager{
		logger:   logger,
		registry: registry,
		recorder: recorder,
		matches:  make(map[string]*Match),
	}
}

// CreateMatch starts a new match with the host in the left seat.
func (mgr *Manager) CreateMatch(hostName string, opts ...game.Option) *Match {
	if mgr.recorder != nil {
		opts = append(opts, game.WithRecorder(mgr.recorder))
	}
	engine := game.NewEngine(mgr.registry, mgr.logger, opts...)
	m := &Match{
		Engine:    engine,
		CreatedAt: time.Now(),
		seats:     map[state.Side]string{state.SideLeft: hostName},
	}

	mgr.mu.Lock()
	mgr.matches[engine.State().MatchID] = m
	mgr.mu.Unlock()

	mgr.logger.Info("match hosted",
		zap.String("match_id", engine.State().MatchID),
		zap.String("host", hostName),
	)
	return m
}

// JoinMatch seats a second player, returning their side.
func (mgr *Manager) JoinMatch(matchID, playerName string) (state.Side, *Match, error) {
	mgr.mu.RLock()
	m, exists := mgr.matches[matchID]
	mgr.mu.RUnlock()
	if !exists {
		return "", nil, fmt.Errorf("match %s not found", matchID)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if side, taken := seatOf(m.seats, playerName); taken {
		// Rejoining an occupied seat is a reconnect, not an error.
		return side, m, nil
	}
	if len(m.seats) >= 2 {
		return "", nil, fmt.Errorf("match %s is full", matchID)
	}
	side := state.SideRight
	if _, leftTaken := m.seats[state.SideLeft]; !leftTaken {
		side = state.SideLeft
	}
	m.seats[side] = playerName

	mgr.logger.Info("player joined match",
		zap.String("match_id", matchID),
		zap.String("player", playerName),
		zap.String("side", string(side)),
	)
	return side, m, nil
}

func seatOf(seats map[state.Side]string, playerName string) (state.Side, bool) {
	for side, name := range seats {
		if name == playerName {
			return side, true
		}
	}
	return "", false
}

// GetMatch returns a hosted match.
func (mgr *Manager) GetMatch(matchID string) (*Match, bool) {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()
	m, exists := mgr.matches[matchID]
	return m, exists
}

// RemoveMatch drops a match from the manager.
func (mgr *Manager) RemoveMatch(matchID string) {
	mgr.mu.Lock()
	defer mgr.mu.Unlock()
	delete(mgr.matches, matchID)
	mgr.logger.Info("match removed", zap.String("match_id", matchID))
}

// ListMatches snapshots every hosted match for the lobby.
func (mgr *Manager) ListMatches() []Snapshot {
	mgr.mu.RLock()
	defer mgr.mu.RUnlock()

	out := make([]Snapshot, 0, len(mgr.matches))
	for id, m := range mgr.matches {
		gs := m.Engine.State()
		snap := Snapshot{
			MatchID:   id,
			Phase:     gs.Phase,
			Winner:    gs.Winner,
			CreatedAt: m.CreatedAt,
		}
		m.mu.RLock()
		for _, side := range []state.Side{state.SideLeft, state.SideRight} {
			if name, ok := m.seats[side]; ok {
				snap.Players = append(snap.Players, name)
			}
		}
		m.mu.RUnlock()
		out = append(out, snap)
	}
	return out
}
