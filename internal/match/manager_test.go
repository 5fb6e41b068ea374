package match

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func newManager() *Manager {
	return NewManager(abilities.NewRegistry(), nil, zap.NewNop())
}

func TestCreateMatchSeatsHostLeft(t *testing.T) {
	mgr := newManager()
	m := mgr.CreateMatch("alice")

	side, ok := m.Seat("alice")
	require.True(t, ok)
	assert.Equal(t, state.SideLeft, side)
	assert.False(t, m.Full())

	hosted, exists := mgr.GetMatch(m.Engine.State().MatchID)
	require.True(t, exists)
	assert.Same(t, m, hosted)
}

func TestJoinMatchFillsRightSeat(t *testing.T) {
	mgr := newManager()
	m := mgr.CreateMatch("alice")

	side, joined, err := mgr.JoinMatch(m.Engine.State().MatchID, "bob")
	require.NoError(t, err)
	assert.Equal(t, state.SideRight, side)
	assert.Same(t, m, joined)
	assert.True(t, m.Full())

	name, ok := m.PlayerAt(state.SideRight)
	require.True(t, ok)
	assert.Equal(t, "bob", name)
}

func TestJoinMatchReconnectKeepsSeat(t *testing.T) {
	mgr := newManager()
	m := mgr.CreateMatch("alice")
	matchID := m.Engine.State().MatchID
	_, _, err := mgr.JoinMatch(matchID, "bob")
	require.NoError(t, err)

	side, _, err := mgr.JoinMatch(matchID, "alice")
	require.NoError(t, err)
	assert.Equal(t, state.SideLeft, side)

	side, _, err = mgr.JoinMatch(matchID, "bob")
	require.NoError(t, err)
	assert.Equal(t, state.SideRight, side)
}

func TestJoinMatchRejectsThirdPlayer(t *testing.T) {
	mgr := newManager()
	m := mgr.CreateMatch("alice")
	matchID := m.Engine.State().MatchID
	_, _, err := mgr.JoinMatch(matchID, "bob")
	require.NoError(t, err)

	_, _, err = mgr.JoinMatch(matchID, "carol")
	assert.Error(t, err)
}

func TestJoinMatchUnknownID(t *testing.T) {
	mgr := newManager()
	_, _, err := mgr.JoinMatch("no-such-match", "bob")
	assert.Error(t, err)
}

func TestListMatches(t *testing.T) {
	mgr := newManager()
	assert.Empty(t, mgr.ListMatches())

	m := mgr.CreateMatch("alice")
	_, _, err := mgr.JoinMatch(m.Engine.State().MatchID, "bob")
	require.NoError(t, err)
	mgr.CreateMatch("carol")

	snaps := mgr.ListMatches()
	require.Len(t, snaps, 2)
	for _, snap := range snaps {
		if snap.MatchID == m.Engine.State().MatchID {
			assert.ElementsMatch(t, []string{"alice", "bob"}, snap.Players)
			assert.Equal(t, state.PhaseCampSelection, snap.Phase)
		}
	}
}

func TestRemoveMatch(t *testing.T) {
	mgr := newManager()
	m := mgr.CreateMatch("alice")
	matchID := m.Engine.State().MatchID

	mgr.RemoveMatch(matchID)
	_, exists := mgr.GetMatch(matchID)
	assert.False(t, exists)
}
