package game

import (
	"sort"
	"testing"

	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/stretchr/testify/require"
)

const (
	blue   Color = "blue"
	yellow Color = "yellow"
)

// labMap is a small board: a blue cluster around a and a yellow ring f..l.
//
//	d - a - b - e        f - g - h - i
//	|    \ /             |           |
//	m     c              l - k ----- j
func labMap() maps.Map {
	return maps.Map{
		Name:      "lab",
		StartCity: "a",
		Cities: []maps.CityAttrs{
			{Name: "a", Color: "blue", Population: 1300, Neighbors: []string{"b", "c", "d"}},
			{Name: "b", Color: "blue", Population: 1200, Neighbors: []string{"a", "c", "e"}},
			{Name: "c", Color: "blue", Population: 1100, Neighbors: []string{"a", "b"}},
			{Name: "d", Color: "blue", Population: 1000, Neighbors: []string{"a", "m"}},
			{Name: "e", Color: "blue", Population: 900, Neighbors: []string{"b"}},
			{Name: "m", Color: "blue", Population: 800, Neighbors: []string{"d"}},
			{Name: "f", Color: "yellow", Population: 700, Neighbors: []string{"g", "l"}},
			{Name: "g", Color: "yellow", Population: 600, Neighbors: []string{"f", "h"}},
			{Name: "h", Color: "yellow", Population: 500, Neighbors: []string{"g", "i"}},
			{Name: "i", Color: "yellow", Population: 400, Neighbors: []string{"h", "j"}},
			{Name: "j", Color: "yellow", Population: 300, Neighbors: []string{"i", "k"}},
			{Name: "k", Color: "yellow", Population: 200, Neighbors: []string{"j", "l"}},
			{Name: "l", Color: "yellow", Population: 100, Neighbors: []string{"k", "f"}},
		},
	}
}

func labSettings(roles ...Role) Settings {
	settings := DefaultSettings()
	settings.Seed = 42
	settings.Epidemics = 0
	settings.Players = []string{"player_1", "player_2"}
	settings.Roles = map[string]Role{
		"player_1": RoleScientist,
		"player_2": RoleResearcher,
	}
	for i, role := range roles {
		settings.Roles[settings.Players[i]] = role
	}
	return settings
}

// newLabState builds a lab game with an empty board and empty hands.
func newLabState(t *testing.T, roles ...Role) *State {
	t.Helper()
	s, err := NewState(labSettings(roles...), labMap(), nil)
	require.NoError(t, err)
	clearBoard(s)
	clearHands(s)
	return s
}

func newLabEngine(t *testing.T, input InputProvider, roles ...Role) (*Engine, *State) {
	t.Helper()
	s := newLabState(t, roles...)
	return NewEngine(s, input, nil, nil), s
}

func clearBoard(s *State) {
	for _, c := range s.Board.Cities() {
		for color, n := range c.cubes {
			if n > 0 {
				s.Diseases.Add(color, n)
			}
			c.cubes[color] = 0
		}
	}
	s.Outbreaks.Count = 0
	s.Outbreaks.Reset()
}

func clearHands(s *State) {
	for _, p := range s.Players() {
		for _, c := range p.Hand() {
			delete(p.hand, c.Name)
			s.PlayerDeck.Discard(c)
		}
	}
}

// give moves named cards into a hand from wherever they are.
func give(t *testing.T, s *State, p *Player, names ...string) {
	t.Helper()
	for _, name := range names {
		if card, ok := s.PlayerDeck.draw.Remove(named(name)); ok {
			p.put(card)
			continue
		}
		if card, err := s.PlayerDeck.Retrieve(name); err == nil {
			p.put(card)
			continue
		}
		found := false
		for _, other := range s.Players() {
			if card, err := other.take(name); err == nil {
				p.put(card)
				found = true
				break
			}
		}
		require.True(t, found, "card %s not found", name)
	}
}

func player(t *testing.T, s *State, name string) *Player {
	t.Helper()
	p, ok := s.Player(name)
	require.True(t, ok)
	return p
}

// requireConservation checks that cubes and research stations are neither
// created nor lost and that the outbreak marker stays on its track.
func requireConservation(t *testing.T, s *State) {
	t.Helper()
	for _, color := range s.Diseases.Colors() {
		require.Equal(t, s.CubeNum, s.Diseases.Cubes(color)+s.Board.CubesOnBoard(color), "color %s", color)
	}
	require.Equal(t, s.StationNum, s.StationCount+s.Board.Stations(), "research stations")
	require.LessOrEqual(t, s.Outbreaks.Count, s.Outbreaks.Max, "outbreaks")
}

// playerCards names every player card wherever it sits, sorted.
func playerCards(s *State) []string {
	cards := append(s.PlayerDeck.DrawPile(), s.PlayerDeck.DiscardPile()...)
	cards = append(cards, s.PlayerDeck.Removed()...)
	for _, p := range s.Players() {
		cards = append(cards, p.Hand()...)
		if c := p.Contingency(); c != nil {
			cards = append(cards, c)
		}
	}
	names := cardNames(cards)
	sort.Strings(names)
	return names
}

// infectionCards names every infection card wherever it sits, sorted.
func infectionCards(s *State) []string {
	d := s.InfectionDeck
	cards := append(d.DrawPile(), d.DiscardPile()...)
	names := cardNames(append(cards, d.Removed()...))
	sort.Strings(names)
	return names
}

func playerCardCount(s *State) int { return len(playerCards(s)) }

func infectionCardCount(s *State) int { return len(infectionCards(s)) }
