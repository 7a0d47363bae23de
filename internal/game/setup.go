package game

import (
	crand "crypto/rand"
	"encoding/binary"
	"fmt"
	"math/rand/v2"

	"github.com/google/uuid"
	"github.com/marcsingleton/Pydemic/internal/game/rules"
	"github.com/marcsingleton/Pydemic/internal/maps"
)

// Settings are the tunables of one game.
type Settings struct {
	Players        []string
	Roles          map[string]Role
	Epidemics      int
	StartCity      string
	OutbreakMax    int
	InfectionRates []int
	CubeNum        int
	CubeMax        int
	StationNum     int
	HandMax        int
	ActionNum      int
	Seed           uint64
}

// DefaultSettings returns the standard rules for two players.
func DefaultSettings() Settings {
	return Settings{
		Players:        []string{"player_1", "player_2"},
		Epidemics:      4,
		OutbreakMax:    8,
		InfectionRates: []int{2, 2, 2, 3, 3, 4, 4},
		CubeNum:        24,
		CubeMax:        3,
		StationNum:     6,
		HandMax:        7,
		ActionNum:      4,
	}
}

// NewSeed returns a random seed from the operating system.
func NewSeed() (uint64, error) {
	var b [8]byte
	if _, err := crand.Read(b[:]); err != nil {
		return 0, fmt.Errorf("failed to read random seed: %w", err)
	}
	return binary.LittleEndian.Uint64(b[:]), nil
}

// NewState builds a game ready for its first turn. A zero seed draws one from
// the operating system; the chosen seed is kept on the state.
func NewState(settings Settings, m maps.Map, events *rules.EventBus) (*State, error) {
	if len(settings.Players) == 0 {
		return nil, fmt.Errorf("at least one player is required")
	}
	if len(settings.Players) > len(AllRoles()) {
		return nil, fmt.Errorf("at most %d players are supported", len(AllRoles()))
	}
	seen := make(map[string]bool, len(settings.Players))
	for _, name := range settings.Players {
		if name == "" || seen[name] {
			return nil, fmt.Errorf("player names must be unique and non-empty: %q", name)
		}
		seen[name] = true
	}

	seed := settings.Seed
	if seed == 0 {
		var err error
		if seed, err = NewSeed(); err != nil {
			return nil, err
		}
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	// 1-2. Board, diseases and one card of each deck per city.
	board, err := NewBoard(m, settings.CubeMax)
	if err != nil {
		return nil, err
	}
	colors := make([]Color, 0, 4)
	for _, c := range m.Colors() {
		colors = append(colors, Color(c))
	}

	startName := settings.StartCity
	if startName == "" {
		startName = m.StartCity
	}
	start, ok := board.City(startName)
	if !ok {
		return nil, fmt.Errorf("start city %q is not on map %s", startName, m.Name)
	}

	var playerCards, infectionCards []*Card
	for _, c := range board.Cities() {
		playerCards = append(playerCards, newCityCard(c))
		infectionCards = append(infectionCards, newInfectionCard(c))
	}
	// 3. Event cards join the player deck.
	for _, name := range EventNames() {
		playerCards = append(playerCards, newEventCard(name))
	}

	if events == nil {
		events = rules.NewEventBus()
	}
	s := &State{
		ID:            uuid.NewString(),
		Seed:          seed,
		Board:         board,
		Diseases:      NewDiseaseTrack(colors, settings.CubeNum),
		Outbreaks:     NewOutbreakTrack(settings.OutbreakMax),
		Infection:     NewInfectionTrack(settings.InfectionRates),
		PlayerDeck:    NewPlayerDeck(playerCards, rng),
		InfectionDeck: NewInfectionDeck(infectionCards, rng),
		CubeNum:       settings.CubeNum,
		StationNum:    settings.StationNum,
		StationCount:  settings.StationNum,
		HandMax:       settings.HandMax,
		ActionNum:     settings.ActionNum,
		Phase:         rules.PhaseAction,
		players:       make(map[string]*Player, len(settings.Players)),
		rng:           rng,
		events:        events,
	}

	// 4. Research station at the start city.
	if err := s.AddStation(start.Name); err != nil {
		return nil, fmt.Errorf("failed to place starting station: %w", err)
	}

	// 5. Initial infection, before pawns are placed so no ability interferes.
	for _, cubes := range []int{3, 2, 1} {
		for i := 0; i < 3; i++ {
			s.Outbreaks.Reset()
			if _, err := s.InfectionDeck.Draw(s, cubes, true); err != nil {
				return nil, fmt.Errorf("initial infection failed: %w", err)
			}
		}
	}
	s.Outbreaks.Reset()

	// 6. Roles: configured ones first, the rest drawn from the unused roles.
	taken := make(map[Role]bool)
	for _, name := range settings.Players {
		role, ok := settings.Roles[name]
		if !ok {
			continue
		}
		if taken[role] {
			return nil, fmt.Errorf("role %s is assigned twice", role)
		}
		taken[role] = true
	}
	var pool []Role
	for _, role := range AllRoles() {
		if !taken[role] {
			pool = append(pool, role)
		}
	}
	rng.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })

	// 7. Pawns on the start city.
	for _, name := range settings.Players {
		role, ok := settings.Roles[name]
		if !ok {
			role, pool = pool[0], pool[1:]
		}
		p := newPlayer(name, role, settings.HandMax, settings.ActionNum)
		s.players[name] = p
		s.PlayerOrder = append(s.PlayerOrder, name)
		s.Move(p, start)
	}

	// 8. Starting hands, dealt before the epidemics go in.
	handSize := 6 - len(settings.Players)
	if handSize < 0 {
		handSize = 0
	}
	for _, name := range s.PlayerOrder {
		p := s.players[name]
		for i := 0; i < handSize; i++ {
			card, err := s.PlayerDeck.Draw()
			if err != nil {
				return nil, fmt.Errorf("failed to deal starting hands: %w", err)
			}
			p.put(card)
		}
	}

	// 9. The holder of the most populous city card goes first.
	first, best := 0, -1
	for i, name := range s.PlayerOrder {
		for _, c := range s.players[name].hand {
			if c.Kind == CardCity && c.Population > best {
				first, best = i, c.Population
			}
		}
	}
	order := make([]string, 0, len(s.PlayerOrder))
	order = append(order, s.PlayerOrder[first:]...)
	s.PlayerOrder = append(order, s.PlayerOrder[:first]...)

	// 10. Seed the player deck with epidemics.
	s.PlayerDeck.AddEpidemics(settings.Epidemics)
	return s, nil
}
