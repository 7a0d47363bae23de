package game

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidCommand marks malformed input: wrong argument count or an
	// unknown command, city, player, card or color.
	ErrInvalidCommand = errors.New("invalid command")
	// ErrRuleViolation marks a well-formed request the rules do not allow.
	ErrRuleViolation = errors.New("rule violation")

	ErrImmune            = fmt.Errorf("%w: immune", ErrRuleViolation)
	ErrEradicated        = fmt.Errorf("%w: disease eradicated", ErrRuleViolation)
	ErrNotActive         = fmt.Errorf("%w: disease not active", ErrRuleViolation)
	ErrNoCubes           = fmt.Errorf("%w: no cubes", ErrRuleViolation)
	ErrNotInHand         = fmt.Errorf("%w: card not in hand", ErrRuleViolation)
	ErrNotInDiscard      = fmt.Errorf("%w: card not in discard pile", ErrRuleViolation)
	ErrNotEvent          = fmt.Errorf("%w: not an event card", ErrRuleViolation)
	ErrNoStation         = fmt.Errorf("%w: no research station", ErrRuleViolation)
	ErrStationPresent    = fmt.Errorf("%w: research station already present", ErrRuleViolation)
	ErrNoStationsLeft    = fmt.Errorf("%w: no research stations available", ErrRuleViolation)
	ErrNotAdjacent       = fmt.Errorf("%w: not adjacent", ErrRuleViolation)
	ErrNotColocated      = fmt.Errorf("%w: players not in the same city", ErrRuleViolation)
	ErrCannotShare       = fmt.Errorf("%w: card cannot be shared", ErrRuleViolation)
	ErrInsufficientCards = fmt.Errorf("%w: insufficient cards", ErrRuleViolation)
	ErrSlotOccupied      = fmt.Errorf("%w: contingency slot occupied", ErrRuleViolation)
	ErrAbilityUsed       = fmt.Errorf("%w: ability already used this turn", ErrRuleViolation)
	ErrNoActions         = fmt.Errorf("%w: no actions remaining", ErrRuleViolation)

	// ErrGameLost and ErrGameWon match a *GameOverError through errors.Is.
	ErrGameLost = errors.New("game lost")
	ErrGameWon  = errors.New("game won")
	// ErrQuit is returned once a quit command has been confirmed.
	ErrQuit = errors.New("game quit")
)

// Outcome is the final result of a game.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeWon
	OutcomeLost
	OutcomeQuit
)

func (o Outcome) String() string {
	switch o {
	case OutcomeWon:
		return "won"
	case OutcomeLost:
		return "lost"
	case OutcomeQuit:
		return "quit"
	default:
		return "none"
	}
}

// GameOverError ends the game. It unwinds through every caller, including
// outbreak cascades and epidemics, up to the run loop.
type GameOverError struct {
	Outcome Outcome
	Reason  string
}

func (e *GameOverError) Error() string {
	return fmt.Sprintf("game %s: %s", e.Outcome, e.Reason)
}

// Is lets errors.Is(err, ErrGameLost) and errors.Is(err, ErrGameWon) match.
func (e *GameOverError) Is(target error) bool {
	switch target {
	case ErrGameLost:
		return e.Outcome == OutcomeLost
	case ErrGameWon:
		return e.Outcome == OutcomeWon
	}
	return false
}

func lose(format string, args ...any) error {
	return &GameOverError{Outcome: OutcomeLost, Reason: fmt.Sprintf(format, args...)}
}

func win(format string, args ...any) error {
	return &GameOverError{Outcome: OutcomeWon, Reason: fmt.Sprintf(format, args...)}
}

// IsFatal reports whether err ends the game.
func IsFatal(err error) bool {
	return errors.Is(err, ErrGameLost) || errors.Is(err, ErrGameWon) || errors.Is(err, ErrQuit)
}

// OutcomeOf maps a fatal error to its outcome.
func OutcomeOf(err error) Outcome {
	switch {
	case errors.Is(err, ErrGameWon):
		return OutcomeWon
	case errors.Is(err, ErrGameLost):
		return OutcomeLost
	case errors.Is(err, ErrQuit):
		return OutcomeQuit
	default:
		return OutcomeNone
	}
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidCommand, fmt.Sprintf(format, args...))
}

func violationf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}
