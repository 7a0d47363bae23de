package game

import (
	"errors"
	"math/rand/v2"
	"strconv"

	"github.com/marcsingleton/Pydemic/internal/game/rules"
)

// ForecastSize is the number of infection cards a forecast rearranges.
const ForecastSize = 6

func shuffle(rng *rand.Rand, cards []*Card) {
	rng.Shuffle(len(cards), func(i, j int) {
		cards[i], cards[j] = cards[j], cards[i]
	})
}

func named(name string) func(*Card) bool {
	return func(c *Card) bool { return c.Name == name }
}

// InfectionDeck is the infection draw pile and its discard pile.
type InfectionDeck struct {
	draw    *rules.Stack[*Card]
	discard *rules.Stack[*Card]
	removed []*Card
	rng     *rand.Rand
}

// NewInfectionDeck shuffles the cards into a fresh draw pile.
func NewInfectionDeck(cards []*Card, rng *rand.Rand) *InfectionDeck {
	pile := make([]*Card, len(cards))
	copy(pile, cards)
	shuffle(rng, pile)
	return &InfectionDeck{draw: rules.NewStack(pile), discard: rules.NewStack[*Card](nil), rng: rng}
}

// DrawPile returns the draw pile, bottom first.
func (d *InfectionDeck) DrawPile() []*Card { return d.draw.List() }

// DiscardPile returns the discard pile in discard order.
func (d *InfectionDeck) DiscardPile() []*Card { return d.discard.List() }

// Removed returns the cards taken out of the game.
func (d *InfectionDeck) Removed() []*Card { return append([]*Card(nil), d.removed...) }

// Draw takes the top card (or the bottom one for an epidemic), infects its
// city and discards it. Immunity is reported to the caller but the card is
// still discarded; fatal errors propagate.
func (d *InfectionDeck) Draw(s *State, cubes int, fromTop bool) (*Card, error) {
	var (
		card *Card
		err  error
	)
	if fromTop {
		card, err = d.draw.Pop()
	} else {
		card, err = d.draw.PopBottom()
	}
	if errors.Is(err, rules.ErrStackEmpty) {
		// Small maps can run the pile dry; recycle the discards.
		d.Intensify()
		if fromTop {
			card, err = d.draw.Pop()
		} else {
			card, err = d.draw.PopBottom()
		}
	}
	if err != nil {
		return nil, lose("infection deck exhausted")
	}

	s.emit(rules.NewEventWithAmount(rules.EventCityInfected, s.TurnCount, "", card.Name, string(card.Color), cubes))
	infectErr := s.AddDisease(card.Name, card.Color, cubes)
	d.discard.Push(card)
	return card, infectErr
}

// Intensify shuffles the discard pile and places it on top of the draw pile.
func (d *InfectionDeck) Intensify() {
	pile := d.discard.List()
	d.discard.Replace(nil)
	shuffle(d.rng, pile)
	d.draw.PushAll(pile)
}

// Remove takes a card out of the discard pile and out of the game.
func (d *InfectionDeck) Remove(name string) (*Card, error) {
	card, ok := d.discard.Remove(named(name))
	if !ok {
		return nil, violationf(ErrNotInDiscard, "%s", name)
	}
	d.removed = append(d.removed, card)
	return card, nil
}

// Peek returns up to n cards from the top, next draw first.
func (d *InfectionDeck) Peek(n int) []*Card {
	return d.draw.PeekN(n)
}

// Reorder rearranges the top len(order) cards. order is a permutation of the
// indices returned by Peek; the card at order[0] is drawn next.
func (d *InfectionDeck) Reorder(order string) error {
	k := ForecastSize
	if d.draw.Len() < k {
		k = d.draw.Len()
	}
	if len(order) != k {
		return invalidf("forecast order must have %d digits", k)
	}

	top := d.draw.PeekN(k)
	seen := make([]bool, k)
	arranged := make([]*Card, 0, k)
	for _, r := range order {
		idx, err := strconv.Atoi(string(r))
		if err != nil || idx < 0 || idx >= k || seen[idx] {
			return invalidf("forecast order %q is not a permutation of 0-%d", order, k-1)
		}
		seen[idx] = true
		arranged = append(arranged, top[idx])
	}

	for i := 0; i < k; i++ {
		if _, err := d.draw.Pop(); err != nil {
			return err
		}
	}
	for i := len(arranged) - 1; i >= 0; i-- {
		d.draw.Push(arranged[i])
	}
	return nil
}

// PlayerDeck is the player draw pile, its discard pile and the event cards
// played from a contingency slot.
type PlayerDeck struct {
	draw    *rules.Stack[*Card]
	discard *rules.Stack[*Card]
	removed []*Card
	rng     *rand.Rand
}

// NewPlayerDeck shuffles the cards into a fresh draw pile.
func NewPlayerDeck(cards []*Card, rng *rand.Rand) *PlayerDeck {
	pile := make([]*Card, len(cards))
	copy(pile, cards)
	shuffle(rng, pile)
	return &PlayerDeck{draw: rules.NewStack(pile), discard: rules.NewStack[*Card](nil), rng: rng}
}

// DrawPile returns the draw pile, bottom first.
func (d *PlayerDeck) DrawPile() []*Card { return d.draw.List() }

// DiscardPile returns the discard pile in discard order.
func (d *PlayerDeck) DiscardPile() []*Card { return d.discard.List() }

// Removed returns the cards taken out of the game.
func (d *PlayerDeck) Removed() []*Card { return append([]*Card(nil), d.removed...) }

// Remaining returns the size of the draw pile.
func (d *PlayerDeck) Remaining() int { return d.draw.Len() }

// Draw pops the top card. An empty pile loses the game.
func (d *PlayerDeck) Draw() (*Card, error) {
	card, err := d.draw.Pop()
	if err != nil {
		return nil, lose("player deck exhausted")
	}
	return card, nil
}

// Discard places a card on the discard pile.
func (d *PlayerDeck) Discard(card *Card) {
	d.discard.Push(card)
}

// Retrieve takes a named card back out of the discard pile.
func (d *PlayerDeck) Retrieve(name string) (*Card, error) {
	card, ok := d.discard.Remove(named(name))
	if !ok {
		return nil, violationf(ErrNotInDiscard, "%s", name)
	}
	return card, nil
}

// PeekDiscard returns the discarded card with the given name, if any.
func (d *PlayerDeck) PeekDiscard(name string) (*Card, bool) {
	for _, c := range d.discard.List() {
		if c.Name == name {
			return c, true
		}
	}
	return nil, false
}

// RemoveFromGame sets a card aside for the rest of the game.
func (d *PlayerDeck) RemoveFromGame(card *Card) {
	d.removed = append(d.removed, card)
}

// AddEpidemics splits the draw pile into n stride subdecks (subdeck i holds
// every n-th card from offset i), adds one epidemic to each, shuffles each
// subdeck and stacks them back in subdeck order.
func (d *PlayerDeck) AddEpidemics(n int) {
	if n <= 0 {
		return
	}
	pile := d.draw.List()
	out := make([]*Card, 0, len(pile)+n)
	for i := 0; i < n; i++ {
		sub := []*Card{newEpidemicCard()}
		for j := i; j < len(pile); j += n {
			sub = append(sub, pile[j])
		}
		shuffle(d.rng, sub)
		out = append(out, sub...)
	}
	d.draw.Replace(out)
}
