package game

import (
	"errors"
	"strings"
)

// InputProvider supplies every decision the engine cannot make alone.
// Malformed responses are reported as errors wrapping ErrInvalidCommand;
// any other error aborts the game loop.
type InputProvider interface {
	// Tokens reads one free-form command line.
	Tokens(prompt string) ([]string, error)
	// Confirm asks a yes/no question.
	Confirm(prompt string) (bool, error)
	// Permutation asks for a reordering of cards, as a string of indices.
	Permutation(prompt string, cards []*Card) (string, error)
	// SelectCards asks for count card names out of options.
	SelectCards(prompt string, options []*Card, count int) ([]string, error)
}

// Renderer consumes engine output. It never mutates the game.
type Renderer interface {
	Status(v View)
	Neighbors(c CityView)
	Result(command string, err error)
	GameOver(outcome Outcome, reason string)
	// History lists journal entries, oldest first.
	History(entries []*JournalEntry)
}

type nopRenderer struct{}

func (nopRenderer) Status(View)              {}
func (nopRenderer) Neighbors(CityView)       {}
func (nopRenderer) Result(string, error)     {}
func (nopRenderer) GameOver(Outcome, string) {}
func (nopRenderer) History([]*JournalEntry)  {}

// ErrScriptExhausted is returned by ScriptedInput once every response is used.
var ErrScriptExhausted = errors.New("scripted input exhausted")

// ScriptedInput answers prompts from a fixed queue of lines.
type ScriptedInput struct {
	responses []string
	Prompts   []string
}

// NewScriptedInput queues responses in order.
func NewScriptedInput(responses ...string) *ScriptedInput {
	return &ScriptedInput{responses: append([]string(nil), responses...)}
}

// Push appends more responses.
func (s *ScriptedInput) Push(responses ...string) {
	s.responses = append(s.responses, responses...)
}

// Remaining returns the number of unused responses.
func (s *ScriptedInput) Remaining() int {
	return len(s.responses)
}

func (s *ScriptedInput) next(prompt string) (string, error) {
	s.Prompts = append(s.Prompts, prompt)
	if len(s.responses) == 0 {
		return "", ErrScriptExhausted
	}
	line := s.responses[0]
	s.responses = s.responses[1:]
	return line, nil
}

func (s *ScriptedInput) Tokens(prompt string) ([]string, error) {
	line, err := s.next(prompt)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

func (s *ScriptedInput) Confirm(prompt string) (bool, error) {
	line, err := s.next(prompt)
	if err != nil {
		return false, err
	}
	return ParseConfirm(line)
}

func (s *ScriptedInput) Permutation(prompt string, cards []*Card) (string, error) {
	line, err := s.next(prompt)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

func (s *ScriptedInput) SelectCards(prompt string, options []*Card, count int) ([]string, error) {
	line, err := s.next(prompt)
	if err != nil {
		return nil, err
	}
	return strings.Fields(line), nil
}

// ParseConfirm accepts y, yes, n and no in any case.
func ParseConfirm(line string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true, nil
	case "n", "no":
		return false, nil
	default:
		return false, invalidf("expected yes or no, got %q", line)
	}
}
