package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJournal(t *testing.T) {
	journal := NewJournal()
	assert.Equal(t, 0, journal.Size())
	assert.Nil(t, journal.Latest())
	assert.Nil(t, journal.Next())
	assert.Nil(t, journal.Previous())
}

func TestJournalRecord(t *testing.T) {
	s := newLabState(t)
	journal := NewJournal()

	entry, err := journal.Record(s)
	require.NoError(t, err)

	assert.Equal(t, 1, journal.Size())
	assert.Equal(t, entry, journal.Latest())
	assert.NotEmpty(t, entry.ID)
	assert.Equal(t, s.ID, entry.View.GameID)
	assert.Equal(t, "ACTION", entry.Phase)

	sum, err := s.Checksum()
	require.NoError(t, err)
	assert.Equal(t, sum.Hash, entry.Checksum)
}

func TestJournalNavigation(t *testing.T) {
	s := newLabState(t)
	journal := NewJournal()

	// Record 5 entries
	for i := 0; i < 5; i++ {
		s.TurnCount = i + 1
		_, err := journal.Record(s)
		require.NoError(t, err)
	}
	assert.Equal(t, 5, journal.Size())

	journal.Start()
	entry := journal.Next()
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Turn)

	entry = journal.Next()
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.Turn)

	entry = journal.Previous()
	require.NotNil(t, entry)
	assert.Equal(t, 2, entry.Turn)

	entry = journal.Skip(2)
	require.NotNil(t, entry)
	assert.Equal(t, 4, entry.Turn)

	// Skip past the end clamps
	entry = journal.Skip(10)
	require.NotNil(t, entry)
	assert.Equal(t, 5, entry.Turn)

	entry = journal.Skip(-10)
	require.NotNil(t, entry)
	assert.Equal(t, 1, entry.Turn)

	assert.Equal(t, 3, journal.At(2).Turn)
	assert.Nil(t, journal.At(5))
	assert.Nil(t, journal.At(-1))
}

func TestChecksumTracksState(t *testing.T) {
	s := newLabState(t)
	before, err := s.Checksum()
	require.NoError(t, err)

	again, err := s.Checksum()
	require.NoError(t, err)
	assert.Equal(t, before.Hash, again.Hash)

	require.NoError(t, s.AddDisease("e", blue, 1))
	after, err := s.Checksum()
	require.NoError(t, err)
	assert.NotEqual(t, before.Hash, after.Hash)
}

func TestViewReflectsState(t *testing.T) {
	s := newLabState(t)
	require.NoError(t, s.AddDisease("b", blue, 2))
	p := player(t, s, "player_1")
	give(t, s, p, "a", EventForecast)

	v := s.View()
	assert.Equal(t, s.CurrentPlayer().Name, v.CurrentPlayer)
	assert.Equal(t, 2, v.InfectionRate)
	assert.Len(t, v.Cities, 13)
	assert.Len(t, v.Diseases, 2)
	assert.Equal(t, s.CubeNum-2, v.Diseases[0].Cubes)

	cv, ok := s.CityView("b")
	require.True(t, ok)
	assert.Equal(t, map[string]int{"blue": 2}, cv.Cubes)
	_, ok = s.CityView("nowhere")
	assert.False(t, ok)

	for _, pv := range v.Players {
		if pv.Name != p.Name {
			continue
		}
		require.Len(t, pv.Hand, 2)
		assert.Equal(t, "a", pv.Hand[0].Name)
		assert.Equal(t, "city", pv.Hand[0].Kind)
		assert.Equal(t, EventForecast, pv.Hand[1].Name)
	}
}
