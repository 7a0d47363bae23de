package game

import (
	"fmt"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRNG() *rand.Rand {
	return rand.New(rand.NewPCG(7, 7))
}

func cityCards(n int) []*Card {
	cards := make([]*Card, n)
	for i := range cards {
		cards[i] = &Card{Kind: CardCity, Name: fmt.Sprintf("city_%02d", i), Color: blue}
	}
	return cards
}

func TestAddEpidemicsDistributesOnePerSubdeck(t *testing.T) {
	deck := NewPlayerDeck(cityCards(40), testRNG())
	deck.AddEpidemics(4)

	pile := deck.DrawPile()
	require.Len(t, pile, 44)

	total := 0
	for i := 0; i < 4; i++ {
		count := 0
		for _, c := range pile[i*11 : (i+1)*11] {
			if c.Kind == CardEpidemic {
				count++
			}
		}
		assert.Equal(t, 1, count, "subdeck %d", i)
		total += count
	}
	assert.Equal(t, 4, total)
}

func TestAddEpidemicsUnevenPile(t *testing.T) {
	deck := NewPlayerDeck(cityCards(10), testRNG())
	deck.AddEpidemics(3)

	pile := deck.DrawPile()
	require.Len(t, pile, 13)
	epidemics := 0
	for _, c := range pile {
		if c.Kind == CardEpidemic {
			epidemics++
		}
	}
	assert.Equal(t, 3, epidemics)

	deck.AddEpidemics(0)
	assert.Len(t, deck.DrawPile(), 13)
}

func TestPlayerDeckDrawDiscardRetrieve(t *testing.T) {
	deck := NewPlayerDeck(cityCards(3), testRNG())

	card, err := deck.Draw()
	require.NoError(t, err)
	deck.Discard(card)
	assert.Equal(t, 2, deck.Remaining())

	peeked, ok := deck.PeekDiscard(card.Name)
	require.True(t, ok)
	assert.Same(t, card, peeked)

	got, err := deck.Retrieve(card.Name)
	require.NoError(t, err)
	assert.Same(t, card, got)
	assert.Empty(t, deck.DiscardPile())

	_, err = deck.Retrieve(card.Name)
	assert.ErrorIs(t, err, ErrNotInDiscard)
}

func TestRetrieveKeepsDiscardOrder(t *testing.T) {
	deck := NewPlayerDeck(cityCards(4), testRNG())
	var drawn []string
	for i := 0; i < 3; i++ {
		card, err := deck.Draw()
		require.NoError(t, err)
		deck.Discard(card)
		drawn = append(drawn, card.Name)
	}

	got, err := deck.Retrieve(drawn[1])
	require.NoError(t, err)
	assert.Equal(t, drawn[1], got.Name)
	assert.Equal(t, []string{drawn[0], drawn[2]}, cardNames(deck.DiscardPile()))
}

func TestPlayerDeckEmptyLoses(t *testing.T) {
	deck := NewPlayerDeck(cityCards(1), testRNG())
	_, err := deck.Draw()
	require.NoError(t, err)

	_, err = deck.Draw()
	assert.ErrorIs(t, err, ErrGameLost)
}

func TestInfectionDeckDrawDiscards(t *testing.T) {
	s := newLabState(t)
	before := infectionCardCount(s)
	top := s.InfectionDeck.Peek(1)[0]

	card, err := s.InfectionDeck.Draw(s, 1, true)
	require.NoError(t, err)
	assert.Same(t, top, card)

	city, _ := s.Board.City(card.Name)
	assert.Equal(t, 1, city.Cubes(card.Color))
	discard := s.InfectionDeck.DiscardPile()
	assert.Same(t, card, discard[len(discard)-1])
	assert.Equal(t, before, infectionCardCount(s))
}

func TestInfectionDeckDiscardsImmuneCard(t *testing.T) {
	s := newLabState(t, RoleQuarantineSpecialist)
	card, ok := s.InfectionDeck.draw.Remove(named("a"))
	if !ok {
		card, ok = s.InfectionDeck.discard.Remove(named("a"))
		require.True(t, ok)
	}
	s.InfectionDeck.draw.Push(card)

	_, err := s.InfectionDeck.Draw(s, 3, true)
	assert.ErrorIs(t, err, ErrImmune)
	discard := s.InfectionDeck.DiscardPile()
	assert.Equal(t, "a", discard[len(discard)-1].Name)
}

func TestInfectionDeckRecyclesWhenEmpty(t *testing.T) {
	s := newLabState(t)
	for s.InfectionDeck.draw.Len() > 0 {
		_, err := s.InfectionDeck.draw.Pop()
		require.NoError(t, err)
	}
	require.NotEmpty(t, s.InfectionDeck.DiscardPile())

	_, err := s.InfectionDeck.Draw(s, 1, true)
	require.NoError(t, err)
	assert.Len(t, s.InfectionDeck.DiscardPile(), 1)
}

func TestInfectionDeckExhaustedLoses(t *testing.T) {
	s := newLabState(t)
	s.InfectionDeck.draw.Replace(nil)
	s.InfectionDeck.discard.Replace(nil)

	_, err := s.InfectionDeck.Draw(s, 1, true)
	assert.ErrorIs(t, err, ErrGameLost)
}

func TestIntensifyPutsDiscardOnTop(t *testing.T) {
	s := newLabState(t)
	before := infectionCardCount(s)
	discard := cardNames(s.InfectionDeck.DiscardPile())

	s.InfectionDeck.Intensify()

	assert.Empty(t, s.InfectionDeck.DiscardPile())
	top := cardNames(s.InfectionDeck.Peek(len(discard)))
	assert.ElementsMatch(t, discard, top)
	assert.Equal(t, before, infectionCardCount(s))
}

func TestForecastReorder(t *testing.T) {
	s := newLabState(t)
	s.InfectionDeck.Intensify()
	before := infectionCardCount(s)

	top := cardNames(s.InfectionDeck.Peek(ForecastSize))
	require.Len(t, top, ForecastSize)

	require.NoError(t, s.InfectionDeck.Reorder("543210"))
	reversed := cardNames(s.InfectionDeck.Peek(ForecastSize))
	for i := range top {
		assert.Equal(t, top[i], reversed[len(top)-1-i])
	}
	assert.Equal(t, before, infectionCardCount(s))
}

func TestForecastReorderRejectsBadPermutation(t *testing.T) {
	s := newLabState(t)
	s.InfectionDeck.Intensify()
	top := cardNames(s.InfectionDeck.Peek(ForecastSize))

	for _, order := range []string{"", "01234", "0123456", "001234", "01234a", "012349"} {
		err := s.InfectionDeck.Reorder(order)
		assert.ErrorIs(t, err, ErrInvalidCommand, order)
	}
	assert.Equal(t, top, cardNames(s.InfectionDeck.Peek(ForecastSize)))
}

func TestForecastShortPile(t *testing.T) {
	s := newLabState(t)
	require.Len(t, s.InfectionDeck.DrawPile(), 4)

	top := cardNames(s.InfectionDeck.Peek(ForecastSize))
	require.Len(t, top, 4)
	assert.ErrorIs(t, s.InfectionDeck.Reorder("543210"), ErrInvalidCommand)
	require.NoError(t, s.InfectionDeck.Reorder("1032"))
	assert.Equal(t, []string{top[1], top[0], top[3], top[2]}, cardNames(s.InfectionDeck.Peek(ForecastSize)))
}

func TestResilientPopulationRemovesDiscard(t *testing.T) {
	s := newLabState(t)
	name := s.InfectionDeck.DiscardPile()[0].Name
	before := infectionCardCount(s)

	card, err := s.InfectionDeck.Remove(name)
	require.NoError(t, err)
	assert.Equal(t, name, card.Name)
	assert.Len(t, s.InfectionDeck.Removed(), 1)
	assert.Equal(t, before, infectionCardCount(s))

	_, err = s.InfectionDeck.Remove(name)
	assert.ErrorIs(t, err, ErrNotInDiscard)
}
