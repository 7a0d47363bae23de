package game

import (
	"context"
	"errors"
	"fmt"

	"github.com/marcsingleton/Pydemic/internal/game/rules"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"go.uber.org/zap"
)

// Engine drives the turn cycle over a State. It is single-threaded: every
// command, cascade and epidemic runs to completion before the next prompt.
type Engine struct {
	logger   *zap.Logger
	state    *State
	input    InputProvider
	renderer Renderer
	turns    *rules.TurnManager
	events   *rules.EventBus
	journal  *Journal
}

// NewEngine wires an engine around an existing state.
func NewEngine(state *State, input InputProvider, renderer Renderer, logger *zap.Logger) *Engine {
	if renderer == nil {
		renderer = nopRenderer{}
	}
	if state.events == nil {
		state.events = rules.NewEventBus()
	}
	e := &Engine{
		logger:   logger,
		state:    state,
		input:    input,
		renderer: renderer,
		turns:    rules.NewTurnManager(state.PlayerOrder),
		events:   state.events,
		journal:  NewJournal(),
	}
	state.Phase = e.turns.CurrentPhase()
	e.events.Subscribe(e.logEvent)
	return e
}

// NewGame builds the state from settings and a map and wires an engine.
func NewGame(settings Settings, m maps.Map, input InputProvider, renderer Renderer, logger *zap.Logger) (*Engine, error) {
	events := rules.NewEventBus()
	state, err := NewState(settings, m, events)
	if err != nil {
		return nil, fmt.Errorf("failed to set up game: %w", err)
	}
	return NewEngine(state, input, renderer, logger), nil
}

// State exposes the game state for queries.
func (e *Engine) State() *State { return e.state }

// Events exposes the event bus for subscribers.
func (e *Engine) Events() *rules.EventBus { return e.events }

// Journal exposes the phase-boundary journal.
func (e *Engine) Journal() *Journal { return e.journal }

// View captures the current state for renderers.
func (e *Engine) View() View { return e.state.View() }

// Run plays turns until the game ends. A finished game returns its outcome
// and a nil error; input failures and cancellation return an error.
func (e *Engine) Run(ctx context.Context) (Outcome, error) {
	s := e.state
	if e.logger != nil {
		e.logger.Info("game started",
			zap.String("game_id", s.ID),
			zap.Uint64("seed", s.Seed),
			zap.Strings("order", s.PlayerOrder),
		)
	}
	s.emit(rules.NewEvent(rules.EventGameStarted, s.TurnCount, "", ""))
	e.record()

	for {
		err := e.PlayTurn(ctx)
		if err == nil {
			continue
		}
		if !IsFatal(err) {
			return OutcomeNone, err
		}

		outcome := OutcomeOf(err)
		if e.logger != nil {
			e.logger.Info("game over",
				zap.String("game_id", s.ID),
				zap.Stringer("outcome", outcome),
				zap.Int("turn", s.TurnCount),
				zap.String("reason", err.Error()),
			)
		}
		evt := rules.NewEvent(rules.EventGameOver, s.TurnCount, "", "")
		evt.Data = outcome.String()
		evt.Metadata["reason"] = err.Error()
		s.emit(evt)
		e.renderer.GameOver(outcome, err.Error())
		return outcome, nil
	}
}

// PlayTurn runs one full turn for the current player.
func (e *Engine) PlayTurn(ctx context.Context) error {
	s := e.state
	p, ok := s.Player(e.turns.ActivePlayer())
	if !ok {
		return fmt.Errorf("no player seated at turn %d", s.TurnCount)
	}
	p.ResetTurn()
	if e.logger != nil {
		e.logger.Info("turn started",
			zap.Int("turn", s.TurnCount),
			zap.String("player", p.Name),
			zap.Stringer("role", p.Role),
		)
	}

	for p.ActionCount > 0 {
		if err := e.step(ctx, p); err != nil {
			return err
		}
	}

	e.advance()
	s.DrawCount = 2
	for s.DrawCount > 0 {
		if err := e.step(ctx, p); err != nil {
			return err
		}
	}

	e.advance()
	if s.quietNight {
		s.InfectCount = 0
		s.quietNight = false
	} else {
		s.InfectCount = s.Infection.Rate()
	}
	for s.InfectCount > 0 {
		if err := e.step(ctx, p); err != nil {
			return err
		}
	}

	e.advance()
	p.ResetTurn()
	e.advance()
	return nil
}

func (e *Engine) step(ctx context.Context, p *Player) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	prompt := fmt.Sprintf("%s [%s] turn %d, %s", p.Name, p.Role, e.state.TurnCount, e.state.Phase)
	tokens, err := e.input.Tokens(prompt)
	if err != nil {
		if errors.Is(err, ErrInvalidCommand) {
			e.renderer.Result("", err)
			return nil
		}
		return err
	}
	err = e.Execute(p, tokens)
	if err == nil || errors.Is(err, ErrInvalidCommand) || errors.Is(err, ErrRuleViolation) {
		return nil
	}
	return err
}

func (e *Engine) advance() {
	s := e.state
	phase, wrapped := e.turns.AdvancePhase()
	s.Phase = phase
	if wrapped {
		s.emit(rules.NewEvent(rules.EventTurnEnded, s.TurnCount, s.CurrentPlayer().Name, ""))
		s.TurnCount = e.turns.TurnNumber()
	}

	evt := rules.NewEvent(rules.EventPhaseChanged, s.TurnCount, s.CurrentPlayer().Name, "")
	evt.Data = phase.String()
	s.emit(evt)
	e.record()
}

func (e *Engine) record() {
	if _, err := e.journal.Record(e.state); err != nil && e.logger != nil {
		e.logger.Warn("failed to record journal entry", zap.Error(err))
	}
}

func (e *Engine) logEvent(evt rules.Event) {
	if e.logger == nil {
		return
	}
	fields := []zap.Field{
		zap.String("event", string(evt.Type)),
		zap.Int("turn", evt.Turn),
	}
	if evt.Player != "" {
		fields = append(fields, zap.String("player", evt.Player))
	}
	if evt.City != "" {
		fields = append(fields, zap.String("city", evt.City))
	}
	if evt.Color != "" {
		fields = append(fields, zap.String("color", evt.Color))
	}
	if evt.Amount != 0 {
		fields = append(fields, zap.Int("amount", evt.Amount))
	}
	if evt.Data != "" {
		fields = append(fields, zap.String("data", evt.Data))
	}

	switch evt.Type {
	case rules.EventPhaseChanged, rules.EventEpidemic, rules.EventDiseaseCured, rules.EventDiseaseEradicated:
		e.logger.Info("game event", fields...)
	case rules.EventActionFailed:
		e.logger.Warn("game event", fields...)
	default:
		e.logger.Debug("game event", fields...)
	}
}

// report surfaces a failed command without ending the game.
func (e *Engine) report(p *Player, command string, err error) {
	evt := rules.NewEvent(rules.EventActionFailed, e.state.TurnCount, p.Name, "")
	evt.Data = command
	evt.Metadata["error"] = err.Error()
	e.state.emit(evt)
	e.renderer.Result(command, err)
}

// confirm re-asks until the provider gives a well-formed answer.
func (e *Engine) confirm(prompt string) (bool, error) {
	for {
		ok, err := e.input.Confirm(prompt)
		if err == nil {
			return ok, nil
		}
		if !errors.Is(err, ErrInvalidCommand) {
			return false, err
		}
		e.renderer.Result("confirm", err)
	}
}

// drawPlayerCard draws one player card, resolving an epidemic or adding the
// card to the hand.
func (e *Engine) drawPlayerCard(p *Player) error {
	s := e.state
	s.Outbreaks.Reset()
	card, err := s.PlayerDeck.Draw()
	if err != nil {
		return err
	}
	s.DrawCount--
	s.emit(rules.NewEvent(rules.EventCardDrawn, s.TurnCount, p.Name, card.Name))

	if card.Kind == CardEpidemic {
		s.PlayerDeck.Discard(card)
		return e.epidemic()
	}
	return e.giveCard(p, card)
}

// epidemic raises the infection rate, infects the bottom card with three
// cubes, offers resilient population and intensifies.
func (e *Engine) epidemic() error {
	s := e.state
	s.Infection.Increment()
	s.emit(rules.NewEventWithAmount(rules.EventEpidemic, s.TurnCount, "", "", "", s.Infection.Rate()))

	if _, err := s.InfectionDeck.Draw(s, 3, false); err != nil {
		if IsFatal(err) {
			return err
		}
		e.renderer.Result("epidemic", err)
	}

	for _, holder := range s.Players() {
		if !holder.HasEvent(EventResilientPopulation) {
			continue
		}
		play, err := e.confirm(fmt.Sprintf("%s, play %s before the infection deck is intensified?", holder.Name, EventResilientPopulation))
		if err != nil {
			return err
		}
		if !play {
			continue
		}
		if err := e.PlayEvent(holder, EventResilientPopulation); err != nil {
			if IsFatal(err) {
				return err
			}
			e.report(holder, "event", err)
		}
	}

	s.InfectionDeck.Intensify()
	return nil
}

// infect draws the top infection card and adds one cube.
func (e *Engine) infect() error {
	s := e.state
	s.Outbreaks.Reset()
	_, err := s.InfectionDeck.Draw(s, 1, true)
	s.InfectCount--
	if err != nil && !IsFatal(err) {
		e.renderer.Result("infect", err)
		return nil
	}
	return err
}

// giveCard adds a card to a hand and makes the player discard or play
// events until the hand limit holds again.
func (e *Engine) giveCard(p *Player, card *Card) error {
	s := e.state
	p.put(card)
	for p.HandSize() > p.HandMax {
		prompt := fmt.Sprintf("%s holds %d cards (limit %d): discard CARD or event CARD", p.Name, p.HandSize(), p.HandMax)
		tokens, err := e.input.Tokens(prompt)
		if err != nil {
			if errors.Is(err, ErrInvalidCommand) {
				e.renderer.Result("discard", err)
				continue
			}
			return err
		}

		if len(tokens) != 2 {
			err = invalidf("expected discard CARD or event CARD")
		} else {
			switch tokens[0] {
			case "discard":
				_, err = s.discardFromHand(p, tokens[1])
			case "event":
				err = e.PlayEvent(p, tokens[1])
			default:
				err = invalidf("expected discard CARD or event CARD")
			}
		}
		if err != nil {
			if IsFatal(err) {
				return err
			}
			e.report(p, "discard", err)
		}
	}
	return nil
}
