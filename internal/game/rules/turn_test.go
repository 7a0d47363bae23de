package rules

import "testing"

func TestTurnManagerSequence(t *testing.T) {
	tm := NewTurnManager([]string{"Alice", "Bob"})

	expected := []Phase{PhaseAction, PhaseDraw, PhaseInfect, PhaseCleanup}

	for i, exp := range expected {
		if tm.CurrentPhase() != exp {
			t.Fatalf("step %d: expected phase %s, got %s", i, exp, tm.CurrentPhase())
		}
		if i < len(expected)-1 {
			if _, wrapped := tm.AdvancePhase(); wrapped {
				t.Fatalf("step %d: unexpected wrap", i)
			}
		}
	}
}

func TestTurnManagerAdvanceWrapsTurn(t *testing.T) {
	tm := NewTurnManager([]string{"Alice", "Bob", "Carol"})

	for i := 0; i < 3; i++ {
		tm.AdvancePhase()
		if tm.TurnNumber() != 0 {
			t.Fatalf("expected to remain on turn 0, got turn %d at step %d", tm.TurnNumber(), i)
		}
		if tm.ActivePlayer() != "Alice" {
			t.Fatalf("expected active player to remain Alice during turn, got %s", tm.ActivePlayer())
		}
	}

	phase, wrapped := tm.AdvancePhase()
	if !wrapped {
		t.Fatalf("expected wrap after cleanup")
	}
	if tm.TurnNumber() != 1 {
		t.Fatalf("expected turn number 1 after wrap, got %d", tm.TurnNumber())
	}
	if tm.ActivePlayer() != "Bob" {
		t.Fatalf("expected active player Bob after wrap, got %s", tm.ActivePlayer())
	}
	if phase != PhaseAction {
		t.Fatalf("expected new turn to start at ACTION, got %s", phase)
	}
}

func TestTurnManagerRotatesThroughSeats(t *testing.T) {
	tm := NewTurnManager([]string{" Alice ", "Bob"})

	seen := make([]string, 0, 4)
	for turn := 0; turn < 4; turn++ {
		seen = append(seen, tm.ActivePlayer())
		for i := 0; i < len(turnSequence); i++ {
			tm.AdvancePhase()
		}
	}

	want := []string{"Alice", "Bob", "Alice", "Bob"}
	for i := range want {
		if seen[i] != want[i] {
			t.Fatalf("turn %d: expected %s, got %s", i, want[i], seen[i])
		}
	}
}

func TestPhaseString(t *testing.T) {
	if PhaseInfect.String() != "INFECT" {
		t.Fatalf("unexpected name %q", PhaseInfect.String())
	}
	if Phase(42).String() != "PHASE_42" {
		t.Fatalf("unexpected fallback name %q", Phase(42).String())
	}
}
