package game

import (
	"testing"

	"github.com/marcsingleton/Pydemic/internal/game/rules"
	"github.com/marcsingleton/Pydemic/internal/maps"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStateSetup(t *testing.T) {
	s, err := NewState(labSettings(), labMap(), nil)
	require.NoError(t, err)

	requireConservation(t, s)
	assert.Equal(t, 3+3+3+2+2+2+1+1+1, s.Board.CubesOnBoard(blue)+s.Board.CubesOnBoard(yellow))
	assert.Len(t, s.InfectionDeck.DiscardPile(), 9)
	assert.Len(t, s.InfectionDeck.DrawPile(), 4)

	start, ok := s.Board.City("a")
	require.True(t, ok)
	assert.True(t, start.Station)
	assert.Equal(t, s.StationNum-1, s.StationCount)
	assert.Equal(t, []string{"player_1", "player_2"}, start.Occupants())

	for _, p := range s.Players() {
		assert.Equal(t, 4, p.HandSize())
	}
	assert.Equal(t, 13+len(EventNames()), playerCardCount(s))
	assert.Equal(t, 0, s.Outbreaks.Count)
}

func TestNewBoardLinksOneWayEdgesBothWays(t *testing.T) {
	m := maps.Map{
		Name: "oneway",
		Cities: []maps.CityAttrs{
			{Name: "x", Color: "blue", Neighbors: []string{"y", "z"}},
			{Name: "y", Color: "blue"},
			{Name: "z", Color: "blue", Neighbors: []string{"x"}},
		},
	}
	require.Equal(t, []string{"x->y"}, m.Asymmetric())

	b, err := NewBoard(m, 3)
	require.NoError(t, err)
	y, _ := b.City("y")
	z, _ := b.City("z")
	assert.True(t, y.IsNeighbor("x"))
	assert.Len(t, y.Neighbors(), 1)
	assert.Len(t, z.Neighbors(), 1, "existing reverse edges are not doubled")
}

func TestNewStateFirstPlayerHoldsMostPopulousCity(t *testing.T) {
	s, err := NewState(labSettings(), labMap(), nil)
	require.NoError(t, err)

	best, holder := -1, ""
	for _, p := range s.Players() {
		for _, c := range p.Hand() {
			if c.Kind == CardCity && c.Population > best {
				best, holder = c.Population, p.Name
			}
		}
	}
	assert.Equal(t, holder, s.PlayerOrder[0])
	assert.Equal(t, holder, s.CurrentPlayer().Name)
}

func TestNewStateRejectsBadPlayers(t *testing.T) {
	settings := labSettings()
	settings.Players = nil
	_, err := NewState(settings, labMap(), nil)
	assert.Error(t, err)

	settings = labSettings()
	settings.Players = []string{"ann", "ann"}
	_, err = NewState(settings, labMap(), nil)
	assert.Error(t, err)

	settings = labSettings()
	settings.Roles = map[string]Role{"player_1": RoleMedic, "player_2": RoleMedic}
	_, err = NewState(settings, labMap(), nil)
	assert.Error(t, err)
}

func TestNewStateIsDeterministicForSeed(t *testing.T) {
	a, err := NewState(labSettings(), labMap(), nil)
	require.NoError(t, err)
	b, err := NewState(labSettings(), labMap(), nil)
	require.NoError(t, err)

	sumA, err := a.Checksum()
	require.NoError(t, err)
	sumB, err := b.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sumA.Hash, sumB.Hash)
	assert.NotEqual(t, a.ID, b.ID)
}

func TestAddDiseaseClampsAndOutbreaks(t *testing.T) {
	s := newLabState(t)

	require.NoError(t, s.AddDisease("a", blue, 3))
	a, _ := s.Board.City("a")
	assert.Equal(t, 3, a.Cubes(blue))
	assert.Equal(t, 0, s.Outbreaks.Count)

	s.Outbreaks.Reset()
	require.NoError(t, s.AddDisease("a", blue, 1))

	assert.Equal(t, 3, a.Cubes(blue))
	for _, name := range []string{"b", "c", "d"} {
		c, _ := s.Board.City(name)
		assert.Equal(t, 1, c.Cubes(blue), name)
	}
	assert.Equal(t, 1, s.Outbreaks.Count)
	assert.Equal(t, s.CubeNum-3-3, s.Diseases.Cubes(blue))
	requireConservation(t, s)
}

func TestOutbreakCascadeBetweenAdjacentCities(t *testing.T) {
	s := newLabState(t)
	require.NoError(t, s.AddDisease("a", blue, 3))
	require.NoError(t, s.AddDisease("b", blue, 3))
	s.Outbreaks.Reset()

	require.NoError(t, s.AddDisease("a", blue, 1))

	cubes := func(name string) int {
		c, _ := s.Board.City(name)
		return c.Cubes(blue)
	}
	assert.Equal(t, 3, cubes("a"))
	assert.Equal(t, 3, cubes("b"))
	assert.Equal(t, 2, cubes("c"), "shared neighbor")
	assert.Equal(t, 1, cubes("d"))
	assert.Equal(t, 1, cubes("e"))
	assert.Equal(t, 0, cubes("m"))
	assert.Equal(t, 2, s.Outbreaks.Count)
	requireConservation(t, s)
}

func TestOutbreakCascadeTerminatesOnCycle(t *testing.T) {
	s := newLabState(t)
	ring := []string{"f", "g", "h", "i", "j", "k", "l"}
	for _, name := range ring {
		require.NoError(t, s.AddDisease(name, yellow, 3))
	}
	s.Outbreaks.Reset()

	require.NoError(t, s.AddDisease("f", yellow, 1))

	assert.Equal(t, len(ring), s.Outbreaks.Count)
	assert.Equal(t, len(ring), s.Outbreaks.ResolvedCount())
	for _, name := range ring {
		assert.True(t, s.Outbreaks.Resolved(name, yellow), name)
	}
	requireConservation(t, s)
}

func TestOutbreakLimitLoses(t *testing.T) {
	s := newLabState(t)
	require.NoError(t, s.AddDisease("a", blue, 3))
	s.Outbreaks.Count = s.Outbreaks.Max - 1
	s.Outbreaks.Reset()

	err := s.AddDisease("a", blue, 1)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrGameLost)
	assert.True(t, IsFatal(err))
	assert.Equal(t, OutcomeLost, OutcomeOf(err))
}

func TestExhaustedCubePoolLoses(t *testing.T) {
	s := newLabState(t)
	d, ok := s.Diseases.Get(blue)
	require.True(t, ok)
	d.Cubes = 1

	err := s.AddDisease("e", blue, 2)
	assert.ErrorIs(t, err, ErrGameLost)
}

func TestRemoveDisease(t *testing.T) {
	s := newLabState(t)
	require.NoError(t, s.AddDisease("b", blue, 3))

	require.NoError(t, s.RemoveDisease("b", blue))
	b, _ := s.Board.City("b")
	assert.Equal(t, 2, b.Cubes(blue))

	require.NoError(t, s.AddDisease("f", yellow, 1))
	require.NoError(t, s.Diseases.SetCured(blue))
	require.NoError(t, s.RemoveDisease("b", blue))
	assert.Equal(t, 0, b.Cubes(blue))
	assert.Equal(t, DiseaseEradicated, s.Diseases.Status(blue))

	err := s.RemoveDisease("b", blue)
	assert.ErrorIs(t, err, ErrNoCubes)
	assert.ErrorIs(t, err, ErrRuleViolation)

	err = s.RemoveDisease("nowhere", blue)
	assert.ErrorIs(t, err, ErrInvalidCommand)
	requireConservation(t, s)
}

func TestEradicatedColorRefusesCubes(t *testing.T) {
	s := newLabState(t)
	require.NoError(t, s.AddDisease("f", yellow, 1))
	require.NoError(t, s.Diseases.SetCured(blue))
	assert.Equal(t, DiseaseEradicated, s.Diseases.Status(blue))

	err := s.AddDisease("a", blue, 1)
	assert.ErrorIs(t, err, ErrEradicated)
	a, _ := s.Board.City("a")
	assert.Equal(t, 0, a.Cubes(blue))
}

func TestStations(t *testing.T) {
	s := newLabState(t)
	before := s.StationCount

	require.NoError(t, s.AddStation("b"))
	assert.Equal(t, before-1, s.StationCount)
	assert.ErrorIs(t, s.AddStation("b"), ErrStationPresent)

	require.NoError(t, s.RemoveStation("b"))
	assert.Equal(t, before, s.StationCount)
	assert.ErrorIs(t, s.RemoveStation("b"), ErrNoStation)

	s.StationCount = 0
	assert.ErrorIs(t, s.AddStation("c"), ErrNoStationsLeft)
}

func TestMedicClearsCuredColorOnEntry(t *testing.T) {
	s := newLabState(t, RoleMedic)
	medic := player(t, s, "player_1")

	require.NoError(t, s.AddDisease("c", blue, 2))
	require.NoError(t, s.AddDisease("f", yellow, 1))
	require.NoError(t, s.AddDisease("c", yellow, 1))
	require.NoError(t, s.Diseases.SetCured(blue))

	c, _ := s.Board.City("c")
	s.Move(medic, c)

	assert.Equal(t, 0, c.Cubes(blue))
	assert.Equal(t, 1, c.Cubes(yellow))
	assert.Equal(t, medic.ActionNum, medic.ActionCount)
	assert.Equal(t, DiseaseEradicated, s.Diseases.Status(blue))
	requireConservation(t, s)
}

func TestMedicEntryReportsOnlyRemovedCubes(t *testing.T) {
	s := newLabState(t, RoleMedic)
	medic := player(t, s, "player_1")
	require.NoError(t, s.AddDisease("d", blue, 2))
	require.NoError(t, s.AddDisease("e", blue, 1))
	require.NoError(t, s.Diseases.SetCured(blue))

	var removed []rules.Event
	s.events.SubscribeTyped(rules.EventCubesRemoved, func(evt rules.Event) { removed = append(removed, evt) })

	b, _ := s.Board.City("b")
	s.Move(medic, b)
	assert.Empty(t, removed)

	d, _ := s.Board.City("d")
	s.Move(medic, d)
	require.Len(t, removed, 1)
	assert.Equal(t, "d", removed[0].City)
	assert.Equal(t, 2, removed[0].Amount)
	assert.Equal(t, DiseaseCured, s.Diseases.Status(blue))
	requireConservation(t, s)
}

func TestMedicBlocksCuredColor(t *testing.T) {
	s := newLabState(t, RoleMedic)
	medic := player(t, s, "player_1")
	require.NoError(t, s.AddDisease("e", blue, 1))
	require.NoError(t, s.Diseases.SetCured(blue))

	err := s.AddDisease("a", blue, 1)
	assert.ErrorIs(t, err, ErrImmune)

	b, _ := s.Board.City("b")
	s.Move(medic, b)
	require.NoError(t, s.AddDisease("a", blue, 1))
}

func TestQuarantineSpecialistProtectsNeighborhood(t *testing.T) {
	s := newLabState(t, RoleQuarantineSpecialist)

	assert.ErrorIs(t, s.AddDisease("a", blue, 1), ErrImmune)
	assert.ErrorIs(t, s.AddDisease("b", blue, 1), ErrImmune)
	assert.ErrorIs(t, s.AddDisease("d", yellow, 1), ErrImmune)
	require.NoError(t, s.AddDisease("e", blue, 1))
	require.NoError(t, s.AddDisease("m", blue, 1))
}

func TestOutbreakSkipsImmuneNeighbors(t *testing.T) {
	s := newLabState(t, RoleQuarantineSpecialist)
	qs := player(t, s, "player_1")
	d, _ := s.Board.City("d")
	s.Move(qs, d)

	require.NoError(t, s.AddDisease("b", blue, 3))
	s.Outbreaks.Reset()
	require.NoError(t, s.AddDisease("b", blue, 1))

	a, _ := s.Board.City("a")
	c, _ := s.Board.City("c")
	e, _ := s.Board.City("e")
	assert.Equal(t, 0, a.Cubes(blue))
	assert.Equal(t, 1, c.Cubes(blue))
	assert.Equal(t, 1, e.Cubes(blue))
	assert.Equal(t, 1, s.Outbreaks.Count)
	requireConservation(t, s)
}

func TestCurePublishesEvents(t *testing.T) {
	s := newLabState(t)
	var got []string
	s.events.Subscribe(func(evt rules.Event) { got = append(got, string(evt.Type)) })

	require.NoError(t, s.AddDisease("e", blue, 1))
	require.NoError(t, s.Cure(blue, "player_1"))
	assert.Contains(t, got, "DISEASE_CURED")
	assert.NotContains(t, got, "DISEASE_ERADICATED")

	err := s.Cure(yellow, "player_1")
	assert.ErrorIs(t, err, ErrGameWon)
	assert.Contains(t, got, "DISEASE_ERADICATED")
}
