package game

import "sort"

// CardKind tags the variant of a Card.
type CardKind int

const (
	CardCity CardKind = iota
	CardEvent
	CardInfection
	CardEpidemic
)

func (k CardKind) String() string {
	switch k {
	case CardCity:
		return "city"
	case CardEvent:
		return "event"
	case CardInfection:
		return "infection"
	case CardEpidemic:
		return "epidemic"
	default:
		return "unknown"
	}
}

// EpidemicName is the name shared by every epidemic card.
const EpidemicName = "epidemic"

// Card is a player or infection card. Cards are created once at setup and
// only ever move between piles, hands and contingency slots.
type Card struct {
	Kind       CardKind
	Name       string
	Color      Color
	Population int
}

func newCityCard(c *City) *Card {
	return &Card{Kind: CardCity, Name: c.Name, Color: c.Color, Population: c.Population}
}

func newInfectionCard(c *City) *Card {
	return &Card{Kind: CardInfection, Name: c.Name, Color: c.Color}
}

func newEventCard(name string) *Card {
	return &Card{Kind: CardEvent, Name: name}
}

func newEpidemicCard() *Card {
	return &Card{Kind: CardEpidemic, Name: EpidemicName}
}

func sortCards(cards []*Card) {
	sort.Slice(cards, func(i, j int) bool {
		if cards[i].Kind != cards[j].Kind {
			return cards[i].Kind < cards[j].Kind
		}
		return cards[i].Name < cards[j].Name
	})
}

func cardNames(cards []*Card) []string {
	names := make([]string, len(cards))
	for i, c := range cards {
		names[i] = c.Name
	}
	return names
}
