package game

import (
	"errors"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/marcsingleton/Pydemic/internal/game/rules"
)

// State is the whole game: board, tracks, decks and players. Every operation
// receives it by reference; there is no package-level game state.
type State struct {
	ID            string
	Seed          uint64
	Board         *Board
	Diseases      *DiseaseTrack
	Outbreaks     *OutbreakTrack
	Infection     *InfectionTrack
	PlayerDeck    *PlayerDeck
	InfectionDeck *InfectionDeck

	CubeNum      int
	StationNum   int
	StationCount int
	HandMax      int
	ActionNum    int

	PlayerOrder []string
	TurnCount   int
	DrawCount   int
	InfectCount int
	Phase       rules.Phase

	players    map[string]*Player
	quietNight bool
	rng        *rand.Rand
	events     *rules.EventBus
}

// Player looks up a player by name.
func (s *State) Player(name string) (*Player, bool) {
	p, ok := s.players[name]
	return p, ok
}

// Players returns the players in turn order.
func (s *State) Players() []*Player {
	out := make([]*Player, 0, len(s.PlayerOrder))
	for _, name := range s.PlayerOrder {
		out = append(out, s.players[name])
	}
	return out
}

// CurrentPlayer returns the player whose turn it is.
func (s *State) CurrentPlayer() *Player {
	if len(s.PlayerOrder) == 0 {
		return nil
	}
	return s.players[s.PlayerOrder[s.TurnCount%len(s.PlayerOrder)]]
}

func (s *State) emit(evt rules.Event) {
	if s.events == nil {
		return
	}
	evt.ID = uuid.NewString()
	s.events.Publish(evt)
}

func (s *State) city(name string) (*City, error) {
	c, ok := s.Board.City(name)
	if !ok {
		return nil, invalidf("unknown city %q", name)
	}
	return c, nil
}

func (s *State) color(name string) (Color, error) {
	c := Color(name)
	if !s.Diseases.Has(c) {
		return "", invalidf("unknown color %q", name)
	}
	return c, nil
}

// immune reports whether any player's ability shields the city from a color.
func (s *State) immune(city *City, color Color) (string, bool) {
	for _, p := range s.Players() {
		if p.city == nil {
			continue
		}
		if fn := capabilitiesFor(p.Role).immunity; fn != nil && fn(s, p, city, color) {
			return p.Name, true
		}
	}
	return "", false
}

// AddDisease places n cubes of a color on a city. Cubes beyond the city's
// maximum turn into an outbreak.
func (s *State) AddDisease(name string, color Color, n int) error {
	city, err := s.city(name)
	if err != nil {
		return err
	}
	return s.addDisease(city, color, n)
}

func (s *State) addDisease(city *City, color Color, n int) error {
	if who, ok := s.immune(city, color); ok {
		return violationf(ErrImmune, "%s is protected from %s by %s", city.Name, color, who)
	}

	delta := city.CubeMax - city.cubes[color]
	if n < delta {
		delta = n
	}
	if delta < 0 {
		delta = 0
	}
	if err := s.Diseases.Remove(color, delta); err != nil {
		return err
	}
	city.cubes[color] += delta
	if delta > 0 {
		s.emit(rules.NewEventWithAmount(rules.EventCubesAdded, s.TurnCount, "", city.Name, string(color), delta))
	}

	if n > delta {
		return s.outbreak(city, color)
	}
	return nil
}

// outbreak spreads one cube to every neighbor. Each (city, color) pair breaks
// out at most once per event, which terminates cascades on cyclic graphs.
func (s *State) outbreak(city *City, color Color) error {
	if s.Outbreaks.Resolved(city.Name, color) {
		return nil
	}
	s.Outbreaks.markResolved(city.Name, color)
	if err := s.Outbreaks.Increment(); err != nil {
		return err
	}
	s.emit(rules.NewEventWithAmount(rules.EventOutbreak, s.TurnCount, "", city.Name, string(color), s.Outbreaks.Count))

	for _, neighbor := range city.neighbors {
		if err := s.addDisease(neighbor, color, 1); err != nil && !errors.Is(err, ErrImmune) {
			return err
		}
	}
	return nil
}

// RemoveDisease treats a city: one cube, or every cube once the color is cured.
func (s *State) RemoveDisease(name string, color Color) error {
	city, err := s.city(name)
	if err != nil {
		return err
	}
	n := 1
	if !s.Diseases.IsActive(color) {
		n = city.cubes[color]
	}
	return s.removeCubes(city, color, n)
}

func (s *State) removeCubes(city *City, color Color, n int) error {
	if city.cubes[color] == 0 {
		return violationf(ErrNoCubes, "%s has no %s cubes", city.Name, color)
	}
	s.returnCubes(city, color, n)
	return nil
}

// returnCubes moves up to n cubes of a color from a city back to the supply.
// A city without such cubes is left alone.
func (s *State) returnCubes(city *City, color Color, n int) {
	if n > city.cubes[color] {
		n = city.cubes[color]
	}
	if n <= 0 {
		return
	}
	city.cubes[color] -= n
	s.emit(rules.NewEventWithAmount(rules.EventCubesRemoved, s.TurnCount, "", city.Name, string(color), n))
	if s.Diseases.Add(color, n) {
		s.emit(rules.NewEventWithAmount(rules.EventDiseaseEradicated, s.TurnCount, "", "", string(color), 0))
	}
}

// Cure marks a color cured. Curing the last active color wins the game.
func (s *State) Cure(color Color, by string) error {
	err := s.Diseases.SetCured(color)
	if err != nil && !IsFatal(err) {
		return err
	}
	s.emit(rules.NewEventWithAmount(rules.EventDiseaseCured, s.TurnCount, by, "", string(color), 0))
	if s.Diseases.Status(color) == DiseaseEradicated {
		s.emit(rules.NewEventWithAmount(rules.EventDiseaseEradicated, s.TurnCount, by, "", string(color), 0))
	}
	return err
}

// AddStation builds a research station from the shared pool.
func (s *State) AddStation(name string) error {
	city, err := s.city(name)
	if err != nil {
		return err
	}
	if city.Station {
		return violationf(ErrStationPresent, "%s", city.Name)
	}
	if s.StationCount <= 0 {
		return violationf(ErrNoStationsLeft, "cannot build in %s", city.Name)
	}
	city.Station = true
	s.StationCount--
	s.emit(rules.NewEvent(rules.EventStationBuilt, s.TurnCount, "", city.Name))
	return nil
}

// RemoveStation returns a city's research station to the pool.
func (s *State) RemoveStation(name string) error {
	city, err := s.city(name)
	if err != nil {
		return err
	}
	if !city.Station {
		return violationf(ErrNoStation, "%s", city.Name)
	}
	city.Station = false
	s.StationCount++
	s.emit(rules.NewEvent(rules.EventStationRemoved, s.TurnCount, "", city.Name))
	return nil
}

// Move places a pawn on a city and applies the role's entry ability.
func (s *State) Move(p *Player, dest *City) {
	if p.city != nil {
		p.city.occupants.Remove(p.Name)
	}
	p.city = dest
	dest.occupants.Put(p.Name)
	s.emit(rules.NewEvent(rules.EventPawnMoved, s.TurnCount, p.Name, dest.Name))

	if fn := capabilitiesFor(p.Role).onEnter; fn != nil {
		fn(s, p, dest)
	}
}

// discardFromHand moves a card from a hand to the player discard pile.
func (s *State) discardFromHand(p *Player, name string) (*Card, error) {
	card, err := p.take(name)
	if err != nil {
		return nil, err
	}
	s.PlayerDeck.Discard(card)
	s.emit(rules.NewEvent(rules.EventCardDiscarded, s.TurnCount, p.Name, card.Name))
	return card, nil
}

// undoDiscard puts the most recent discard back in a hand.
func (s *State) undoDiscard(p *Player, card *Card) {
	if _, err := s.PlayerDeck.Retrieve(card.Name); err == nil {
		p.put(card)
	}
}
