package game

// Player is one pawn and its hand. Role-specific behavior is looked up in the
// capability table by Role, so every role shares this record.
type Player struct {
	Name        string
	Role        Role
	HandMax     int
	ActionNum   int
	ActionCount int

	hand            map[string]*Card
	city            *City
	contingency     *Card
	specialMoveUsed bool
}

func newPlayer(name string, role Role, handMax, actionNum int) *Player {
	return &Player{
		Name:        name,
		Role:        role,
		HandMax:     handMax,
		ActionNum:   actionNum,
		ActionCount: actionNum,
		hand:        make(map[string]*Card),
	}
}

// City returns the city the pawn stands on, or nil before placement.
func (p *Player) City() *City {
	return p.city
}

// Hand returns the cards in hand sorted by kind and name.
func (p *Player) Hand() []*Card {
	cards := make([]*Card, 0, len(p.hand))
	for _, c := range p.hand {
		cards = append(cards, c)
	}
	sortCards(cards)
	return cards
}

// HandSize returns the number of cards in hand.
func (p *Player) HandSize() int {
	return len(p.hand)
}

// HasCard reports whether the named card is in hand.
func (p *Player) HasCard(name string) bool {
	_, ok := p.hand[name]
	return ok
}

// Contingency returns the card stored by a contingency planner, if any.
func (p *Player) Contingency() *Card {
	return p.contingency
}

// HasEvent reports whether the player can play the named event, from the
// hand or the contingency slot.
func (p *Player) HasEvent(name string) bool {
	if c, ok := p.hand[name]; ok && c.Kind == CardEvent {
		return true
	}
	return p.contingency != nil && p.contingency.Name == name
}

// CityCards returns the city cards of a color, sorted by name.
func (p *Player) CityCards(color Color) []*Card {
	var cards []*Card
	for _, c := range p.hand {
		if c.Kind == CardCity && c.Color == color {
			cards = append(cards, c)
		}
	}
	sortCards(cards)
	return cards
}

// CureThreshold is the number of matching cards the player needs to cure.
func (p *Player) CureThreshold() int {
	return capabilitiesFor(p.Role).cureNum
}

// CanShare reports whether the player may give the named card away.
func (p *Player) CanShare(card *Card) bool {
	if card.Kind != CardCity {
		return false
	}
	if capabilitiesFor(p.Role).shareAny {
		return true
	}
	return p.city != nil && card.Name == p.city.Name
}

// ResetTurn restores the action budget and per-turn ability flags.
func (p *Player) ResetTurn() {
	p.ActionCount = p.ActionNum
	p.specialMoveUsed = false
}

func (p *Player) take(name string) (*Card, error) {
	card, ok := p.hand[name]
	if !ok {
		return nil, violationf(ErrNotInHand, "%s does not hold %s", p.Name, name)
	}
	delete(p.hand, name)
	return card, nil
}

func (p *Player) put(card *Card) {
	p.hand[card.Name] = card
}
