package game

import (
	"github.com/marcsingleton/Pydemic/internal/game/rules"
)

// Event card names.
const (
	EventAirLift             = "air_lift"
	EventForecast            = "forecast"
	EventGovernmentGrant     = "government_grant"
	EventOneQuietNight       = "one_quiet_night"
	EventResilientPopulation = "resilient_population"
)

// EventNames returns every event card in deck order.
func EventNames() []string {
	return []string{
		EventAirLift,
		EventForecast,
		EventGovernmentGrant,
		EventOneQuietNight,
		EventResilientPopulation,
	}
}

// eventHandlers validate before they mutate, so a failed event leaves the
// game untouched and the card where it was.
var eventHandlers = map[string]func(e *Engine, holder *Player) error{
	EventAirLift:             airLiftEvent,
	EventForecast:            forecastEvent,
	EventGovernmentGrant:     governmentGrantEvent,
	EventOneQuietNight:       oneQuietNightEvent,
	EventResilientPopulation: resilientPopulationEvent,
}

// PlayEvent plays an event card from a hand or a contingency slot. Events
// never cost an action. Cards played from the slot leave the game.
func (e *Engine) PlayEvent(holder *Player, name string) error {
	s := e.state
	card, inHand := holder.hand[name]
	fromSlot := false
	if !inHand {
		if holder.contingency == nil || holder.contingency.Name != name {
			return violationf(ErrNotInHand, "%s does not hold %s", holder.Name, name)
		}
		card, fromSlot = holder.contingency, true
	}
	if card.Kind != CardEvent {
		return violationf(ErrNotEvent, "%s", name)
	}
	handler, ok := eventHandlers[name]
	if !ok {
		return invalidf("no handler for event %q", name)
	}

	if err := handler(e, holder); err != nil {
		return err
	}

	if fromSlot {
		holder.contingency = nil
		s.PlayerDeck.RemoveFromGame(card)
	} else {
		delete(holder.hand, name)
		s.PlayerDeck.Discard(card)
	}
	s.emit(rules.NewEvent(rules.EventEventPlayed, s.TurnCount, holder.Name, name))
	return nil
}

func airLiftEvent(e *Engine, holder *Player) error {
	tokens, err := e.input.Tokens("air_lift: PLAYER CITY")
	if err != nil {
		return err
	}
	if err := expectArgs(tokens, 2); err != nil {
		return err
	}
	pawn, ok := e.state.Player(tokens[0])
	if !ok {
		return invalidf("unknown player %q", tokens[0])
	}
	dest, err := e.state.city(tokens[1])
	if err != nil {
		return err
	}
	e.state.Move(pawn, dest)
	return nil
}

func forecastEvent(e *Engine, holder *Player) error {
	top := e.state.InfectionDeck.Peek(ForecastSize)
	order, err := e.input.Permutation("forecast: order the cards, next draw first", top)
	if err != nil {
		return err
	}
	return e.state.InfectionDeck.Reorder(order)
}

func governmentGrantEvent(e *Engine, holder *Player) error {
	tokens, err := e.input.Tokens("government_grant: CITY")
	if err != nil {
		return err
	}
	if err := expectArgs(tokens, 1); err != nil {
		return err
	}
	return e.state.AddStation(tokens[0])
}

func oneQuietNightEvent(e *Engine, holder *Player) error {
	if e.state.Phase == rules.PhaseInfect {
		e.state.InfectCount = 0
		return nil
	}
	e.state.quietNight = true
	return nil
}

func resilientPopulationEvent(e *Engine, holder *Player) error {
	tokens, err := e.input.Tokens("resilient_population: CITY")
	if err != nil {
		return err
	}
	if err := expectArgs(tokens, 1); err != nil {
		return err
	}
	if _, err := e.state.city(tokens[0]); err != nil {
		return err
	}
	_, err = e.state.InfectionDeck.Remove(tokens[0])
	return err
}
