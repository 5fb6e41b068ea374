package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

// SnapshotChecksum is a deterministic digest of one game state. Two
// states with the same checksum are the same game as far as replay
// playback and persistence are concerned.
type SnapshotChecksum struct {
	Hash      string
	Timestamp string
	Version   int
}

// Snapshot serializes the full authoritative state. The same bytes feed
// the persistence layer and replay recording.
func Snapshot(gs *state.GameState) ([]byte, error) {
	data, err := json.Marshal(gs)
	if err != nil {
		return nil, fmt.Errorf("failed to encode snapshot: %w", err)
	}
	return data, nil
}

// RestoreSnapshot decodes a snapshot back into a playable state.
func RestoreSnapshot(data []byte) (*state.GameState, error) {
	var gs state.GameState
	if err := json.Unmarshal(data, &gs); err != nil {
		return nil, fmt.Errorf("failed to decode snapshot: %w", err)
	}
	return &gs, nil
}

// CloneState deep-copies a state through its snapshot encoding.
func CloneState(gs *state.GameState) (*state.GameState, error) {
	data, err := Snapshot(gs)
	if err != nil {
		return nil, err
	}
	return RestoreSnapshot(data)
}

// ComputeChecksum hashes the canonical representation of the state.
func ComputeChecksum(gs *state.GameState) (*SnapshotChecksum, error) {
	canonical := buildCanonicalRepresentation(gs)
	hash := sha256.New()
	if _, err := hash.Write([]byte(canonical)); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &SnapshotChecksum{
		Hash:      hex.EncodeToString(hash.Sum(nil)),
		Timestamp: time.Now().UTC().Format("2006-01-02T15:04:05.000Z"),
		Version:   1,
	}, nil
}

// VerifyChecksum reports whether the state still matches an earlier
// digest.
func VerifyChecksum(gs *state.GameState, expected *SnapshotChecksum) (bool, error) {
	computed, err := ComputeChecksum(gs)
	if err != nil {
		return false, fmt.Errorf("failed to compute checksum: %w", err)
	}
	return computed.Hash == expected.Hash, nil
}

// buildCanonicalRepresentation flattens the state into a stable string:
// map iteration order and other nondeterminism never leak into the
// digest. Deck and discard order matter and are kept; hands do not and
// are sorted.
func buildCanonicalRepresentation(gs *state.GameState) string {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("MATCH:%s|%s|%d|%s|%d|%s\n",
		gs.MatchID,
		gs.CurrentPlayer,
		gs.TurnNumber,
		gs.Phase,
		gs.DeckExhaustion,
		gs.Winner,
	))

	for _, side := range []state.Side{state.SideLeft, state.SideRight} {
		p := gs.Player(side)
		if p == nil {
			continue
		}
		buf.WriteString(fmt.Sprintf("PLAYER:%s|%d|%s|%s\n",
			side, p.Water, p.Raiders, p.WaterSilo))

		handIDs := make([]string, len(p.Hand))
		for i, c := range p.Hand {
			handIDs[i] = c.ID
		}
		sort.Strings(handIDs)
		buf.WriteString("  HAND:" + strings.Join(handIDs, ",") + "\n")

		for col := range p.Columns {
			for pos := 0; pos < state.NumSlots; pos++ {
				c := p.Columns[col].GetCard(pos)
				if c == nil {
					continue
				}
				buf.WriteString(fmt.Sprintf("  SLOT:%d.%d|%s|%s|%t|%t|%t\n",
					col, pos, c.ID, c.Name, c.IsReady, c.IsDamaged, c.IsDestroyed))
			}
		}
		for slot, ev := range p.EventQueue {
			if ev != nil {
				buf.WriteString(fmt.Sprintf("  EVENT:%d|%s\n", slot, ev.ID))
			}
		}
	}

	deckIDs := make([]string, len(gs.Deck))
	for i, c := range gs.Deck {
		deckIDs[i] = c.ID
	}
	buf.WriteString("DECK:" + strings.Join(deckIDs, ",") + "\n")

	discardIDs := make([]string, len(gs.Discard))
	for i, c := range gs.Discard {
		discardIDs[i] = c.ID
	}
	buf.WriteString("DISCARD:" + strings.Join(discardIDs, ",") + "\n")

	if pd := gs.Pending; pd != nil {
		buf.WriteString(fmt.Sprintf("PENDING:%s|%s|%s|%s|%d|%t\n",
			pd.Type, pd.Player, pd.Selecting, pd.Effect, pd.Remaining, pd.PartiallyResolved))
	}

	buf.WriteString(fmt.Sprintf("TURN_EVENTS:%t|%t|%t|%t|%d|%t|%s\n",
		gs.TurnEvents.EventPlayed,
		gs.TurnEvents.EventResolved,
		gs.TurnEvents.AbilityUsed,
		gs.TurnEvents.AbilityLock,
		gs.TurnEvents.PeoplePlayed,
		gs.TurnEvents.OpponentsExposed,
		gs.TurnEvents.StayedReadyCardID,
	))

	return buf.String()
}

// ValidateSnapshotRoundtrip proves a state survives its encoding
// without loss by comparing digests.
func ValidateSnapshotRoundtrip(gs *state.GameState) error {
	original, err := ComputeChecksum(gs)
	if err != nil {
		return fmt.Errorf("failed to compute original checksum: %w", err)
	}
	data, err := Snapshot(gs)
	if err != nil {
		return fmt.Errorf("failed to serialize: %w", err)
	}
	restored, err := RestoreSnapshot(data)
	if err != nil {
		return fmt.Errorf("failed to deserialize: %w", err)
	}
	restoredChecksum, err := ComputeChecksum(restored)
	if err != nil {
		return fmt.Errorf("failed to compute restored checksum: %w", err)
	}
	if original.Hash != restoredChecksum.Hash {
		return fmt.Errorf("checksum mismatch: original=%s, restored=%s",
			original.Hash, restoredChecksum.Hash)
	}
	return nil
}
