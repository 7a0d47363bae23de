package rules

import (
	"fmt"
	"strings"
)

// Phase represents one stage of a player's turn.
type Phase int

const (
	PhaseAction Phase = iota
	PhaseDraw
	PhaseInfect
	PhaseCleanup
)

var phaseNames = map[Phase]string{
	PhaseAction:  "ACTION",
	PhaseDraw:    "DRAW",
	PhaseInfect:  "INFECT",
	PhaseCleanup: "CLEANUP",
}

func (p Phase) String() string {
	if name, ok := phaseNames[p]; ok {
		return name
	}
	return fmt.Sprintf("PHASE_%d", int(p))
}

// turnSequence is the fixed cyclic order of phases within a turn.
var turnSequence = []Phase{
	PhaseAction,
	PhaseDraw,
	PhaseInfect,
	PhaseCleanup,
}

// TurnManager tracks the active player and phase progression.
type TurnManager struct {
	orderIndex int
	turnNumber int
	order      []string
}

// NewTurnManager creates a turn manager at turn 0, action phase, with the
// given seating order. The first entry is the first active player.
func NewTurnManager(order []string) *TurnManager {
	seats := make([]string, 0, len(order))
	for _, name := range order {
		seats = append(seats, strings.TrimSpace(name))
	}
	return &TurnManager{order: seats}
}

// CurrentPhase returns the phase currently in progress.
func (tm *TurnManager) CurrentPhase() Phase {
	return turnSequence[tm.orderIndex]
}

// TurnNumber returns the number of completed turns (0-based).
func (tm *TurnManager) TurnNumber() int {
	return tm.turnNumber
}

// ActivePlayer returns the player who currently has the turn.
func (tm *TurnManager) ActivePlayer() string {
	if len(tm.order) == 0 {
		return ""
	}
	return tm.order[tm.turnNumber%len(tm.order)]
}

// Order returns a copy of the seating order.
func (tm *TurnManager) Order() []string {
	cpy := make([]string, len(tm.order))
	copy(cpy, tm.order)
	return cpy
}

// AdvancePhase moves to the next phase. Leaving cleanup wraps to the action
// phase of the next turn and rotates the active player; wrapped reports that.
func (tm *TurnManager) AdvancePhase() (phase Phase, wrapped bool) {
	tm.orderIndex++
	if tm.orderIndex >= len(turnSequence) {
		tm.orderIndex = 0
		tm.turnNumber++
		wrapped = true
	}
	return tm.CurrentPhase(), wrapped
}
