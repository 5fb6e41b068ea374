package game

import (
	"testing"

	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
)

func TestSnapshotRoundtrip(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	putInPlay(e, state.SideLeft, 0, state.SlotFront, personCard("Looter", 1))

	data, err := Snapshot(gs)
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	restored, err := RestoreSnapshot(data)
	if err != nil {
		t.Fatalf("restore failed: %v", err)
	}

	if restored.MatchID != gs.MatchID {
		t.Fatalf("match id = %q, want %q", restored.MatchID, gs.MatchID)
	}
	if restored.TurnNumber != gs.TurnNumber || restored.Phase != gs.Phase {
		t.Fatal("turn bookkeeping should survive the roundtrip")
	}
	if len(restored.Deck) != len(gs.Deck) {
		t.Fatal("the deck should survive the roundtrip")
	}
	if restored.Player(state.SideLeft).GetCard(0, state.SlotFront) == nil {
		t.Fatal("tableau cards should survive the roundtrip")
	}
	if err := ValidateSnapshotRoundtrip(gs); err != nil {
		t.Fatalf("roundtrip validation failed: %v", err)
	}
}

func TestCloneStateIsIndependent(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()

	clone, err := CloneState(gs)
	if err != nil {
		t.Fatalf("clone failed: %v", err)
	}

	clone.Player(state.SideLeft).Water = 99
	clone.TurnNumber = 42

	if gs.Player(state.SideLeft).Water == 99 {
		t.Fatal("mutating the clone must not touch the original")
	}
	if gs.TurnNumber == 42 {
		t.Fatal("mutating the clone must not touch the original")
	}
}

func TestChecksumIsDeterministic(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()

	first, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	second, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if first.Hash != second.Hash {
		t.Fatal("the same state must always hash the same")
	}
	if first.Hash == "" || first.Version != 1 {
		t.Fatal("the digest should carry its hash and version")
	}
}

func TestChecksumChangesWithState(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()

	before, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	gs.Player(state.SideLeft).Water++
	after, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if before.Hash == after.Hash {
		t.Fatal("a state change must change the digest")
	}
}

func TestChecksumIgnoresHandOrder(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()
	giveHand(e, state.SideLeft, personCard("Muse", 1), personCard("Scout", 1))

	before, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	hand := gs.Player(state.SideLeft).Hand
	hand[0], hand[1] = hand[1], hand[0]
	after, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	if before.Hash != after.Hash {
		t.Fatal("hand order carries no information and must not change the digest")
	}
}

func TestVerifyChecksum(t *testing.T) {
	e := newTestEngine(t)
	gs := e.State()

	digest, err := ComputeChecksum(gs)
	if err != nil {
		t.Fatalf("checksum failed: %v", err)
	}
	match, err := VerifyChecksum(gs, digest)
	if err != nil || !match {
		t.Fatalf("an untouched state must verify, got match=%t err=%v", match, err)
	}

	gs.TurnNumber++
	match, err = VerifyChecksum(gs, digest)
	if err != nil {
		t.Fatalf("verify failed: %v", err)
	}
	if match {
		t.Fatal("a mutated state must fail verification")
	}
}
