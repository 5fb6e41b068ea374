package game

import (
	"testing"

	"github.com/wastelandgames/wasteland-server-go/internal/game/abilities"
	"github.com/wastelandgames/wasteland-server-go/internal/game/state"
	"go.uber.org/zap"
)

func recordedReplay(t *testing.T, turns int) *Replay {
	t.Helper()
	r := NewReplay("m1")
	for i := 0; i < turns; i++ {
		gs := state.NewGameState("m1")
		gs.TurnNumber = i + 1
		r.RecordState(gs)
	}
	return r
}

func TestReplayNavigation(t *testing.T) {
	r := recordedReplay(t, 5)
	if r.Size() != 5 {
		t.Fatalf("size = %d, want 5", r.Size())
	}

	r.Start()
	first := r.Next()
	if first == nil || first.TurnNumber != 1 {
		t.Fatal("playback starts at the first state")
	}
	second := r.Next()
	if second == nil || second.TurnNumber != 2 {
		t.Fatal("next advances one state")
	}

	back := r.Previous()
	if back == nil || back.TurnNumber != 2 {
		t.Fatal("previous steps the cursor back one")
	}

	if gs := r.Skip(10); gs == nil || gs.TurnNumber != 5 {
		t.Fatal("a forward skip clamps to the last state")
	}
	if gs := r.Skip(-10); gs == nil || gs.TurnNumber != 1 {
		t.Fatal("a backward skip clamps to the first state")
	}

	if gs := r.GetStateAt(2); gs == nil || gs.TurnNumber != 3 {
		t.Fatal("random access by index")
	}
	if r.GetStateAt(99) != nil || r.GetStateAt(-1) != nil {
		t.Fatal("out of range access returns nil")
	}
}

func TestReplayNextPastEnd(t *testing.T) {
	r := recordedReplay(t, 1)
	r.Start()
	if r.Next() == nil {
		t.Fatal("the single state should play")
	}
	if r.Next() != nil {
		t.Fatal("playback past the end returns nil")
	}
}

func TestReplaySaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	r := recordedReplay(t, 3)

	if err := r.SaveToFile(dir); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	loaded, err := LoadReplayFromFile(dir, "m1")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.MatchID != "m1" || loaded.Size() != 3 {
		t.Fatalf("loaded %s with %d states, want m1 with 3", loaded.MatchID, loaded.Size())
	}
	if gs := loaded.GetStateAt(1); gs == nil || gs.TurnNumber != 2 {
		t.Fatal("the recorded order should survive the file")
	}
}

func TestLoadReplayMissingFile(t *testing.T) {
	if _, err := LoadReplayFromFile(t.TempDir(), "absent"); err == nil {
		t.Fatal("loading a missing replay must fail")
	}
}

func TestReplayRecorderLifecycle(t *testing.T) {
	dir := t.TempDir()
	rr := NewReplayRecorder(zap.NewNop(), dir)

	rr.RecordState("m1", state.NewGameState("m1"))
	if _, exists := rr.GetReplay("m1"); exists {
		t.Fatal("nothing records before StartRecording")
	}

	rr.StartRecording("m1")
	if !rr.IsRecording("m1") {
		t.Fatal("recording should be on")
	}
	rr.RecordState("m1", state.NewGameState("m1"))
	rr.RecordState("m1", state.NewGameState("m1"))

	rr.StopRecording("m1")
	rr.RecordState("m1", state.NewGameState("m1"))
	replay, exists := rr.GetReplay("m1")
	if !exists || replay.Size() != 2 {
		t.Fatalf("captured %d states, want the 2 recorded while enabled", replay.Size())
	}

	if err := rr.SaveReplay("m1"); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, exists := rr.GetReplay("m1"); exists {
		t.Fatal("a saved replay leaves memory")
	}
	loaded, err := rr.LoadReplay("m1")
	if err != nil || loaded.Size() != 2 {
		t.Fatalf("reload failed: %v", err)
	}

	if err := rr.SaveReplay("m1"); err == nil {
		t.Fatal("saving a match with no replay must fail")
	}
}

func TestReplayRecorderClear(t *testing.T) {
	rr := NewReplayRecorder(zap.NewNop(), t.TempDir())
	rr.StartRecording("m2")
	rr.RecordState("m2", state.NewGameState("m2"))
	rr.ClearReplay("m2")
	if _, exists := rr.GetReplay("m2"); exists {
		t.Fatal("a cleared replay leaves memory")
	}
	if rr.IsRecording("m2") {
		t.Fatal("clearing also stops recording")
	}
}

func TestEngineRecordsThroughRecorder(t *testing.T) {
	rr := NewReplayRecorder(zap.NewNop(), t.TempDir())
	e := NewEngine(abilities.NewRegistry(), zap.NewNop(), WithRecorder(rr))
	rr.StartRecording(e.State().MatchID)

	gs := e.State()
	for _, side := range []state.Side{state.SideLeft, state.SideRight} {
		names := make([]string, 0, 3)
		for _, camp := range gs.CampOffers[side][:3] {
			names = append(names, camp.Name)
		}
		mustExecute(t, e, Command{Type: CmdSelectCamps, PlayerID: side, CampNames: names})
	}

	replay, exists := rr.GetReplay(gs.MatchID)
	if !exists || replay.Size() != 2 {
		t.Fatalf("each successful command should record one snapshot, got %d", replay.Size())
	}
	if replay.GetStateAt(0) == gs {
		t.Fatal("recorded states must be copies, never the live state")
	}
}
