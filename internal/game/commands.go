package game

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/marcsingleton/Pydemic/internal/game/rules"
)

// command is one entry of the name to handler table. Action commands cost one
// action on success; failures never cost anything.
type command struct {
	name   string
	action bool
	run    func(e *Engine, p *Player, args []string) error
}

var (
	groundCommand    = command{name: "ground", action: true, run: groundAction}
	directCommand    = command{name: "direct", action: true, run: directAction}
	charterCommand   = command{name: "charter", action: true, run: charterAction}
	shuttleCommand   = command{name: "shuttle", action: true, run: shuttleAction}
	stationCommand   = command{name: "station", action: true, run: stationAction}
	treatCommand     = command{name: "treat", action: true, run: treatAction}
	shareCommand     = command{name: "share", action: true, run: shareAction}
	cureCommand      = command{name: "cure", action: true, run: cureAction}
	passCommand      = command{name: "pass", action: true, run: passAction}
	neighborsCommand = command{name: "neighbors", run: neighborsCommandRun}
	eventCommand     = command{name: "event", run: eventCommandRun}
	statusCommand    = command{name: "status", run: statusCommandRun}
	historyCommand   = command{name: "history", run: historyCommandRun}
	quitCommand      = command{name: "quit", run: quitCommandRun}
	drawCommand      = command{name: "draw", run: drawCommandRun}
	infectCommand    = command{name: "infect", run: infectCommandRun}

	airliftCommand     = command{name: "airlift", run: airliftAction}
	opexShuttleCommand = command{name: "opex_shuttle", action: true, run: opexShuttleAction}
	contingencyCommand = command{name: "contingency", action: true, run: contingencyAction}
)

// commands returns the table for the current phase, filtered by role.
func (e *Engine) commands(p *Player) map[string]command {
	var list []command
	switch e.state.Phase {
	case rules.PhaseAction:
		list = []command{
			groundCommand, directCommand, charterCommand, shuttleCommand,
			stationCommand, treatCommand, shareCommand, cureCommand, passCommand,
			neighborsCommand,
		}
		list = append(list, capabilitiesFor(p.Role).commands...)
	case rules.PhaseDraw:
		list = []command{drawCommand}
	case rules.PhaseInfect:
		list = []command{infectCommand}
	}
	list = append(list, eventCommand, statusCommand, historyCommand, quitCommand)

	table := make(map[string]command, len(list))
	for _, c := range list {
		table[c.name] = c
	}
	return table
}

// Commands lists the command names available to a player right now.
func (e *Engine) Commands(p *Player) []string {
	table := e.commands(p)
	names := make([]string, 0, len(table))
	for name := range table {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Execute runs one command line for a player. Non-fatal failures are
// reported to the renderer and returned; the action budget is untouched.
func (e *Engine) Execute(p *Player, tokens []string) error {
	if len(tokens) == 0 {
		return nil
	}
	name, args := tokens[0], tokens[1:]

	cmd, ok := e.commands(p)[name]
	if !ok {
		err := invalidf("unknown command %q", name)
		e.report(p, name, err)
		return err
	}
	if cmd.action && p.ActionCount <= 0 {
		err := violationf(ErrNoActions, "%s", p.Name)
		e.report(p, name, err)
		return err
	}

	err := cmd.run(e, p, args)
	if err != nil {
		if !IsFatal(err) {
			e.report(p, name, err)
		}
		return err
	}

	if cmd.action {
		p.ActionCount--
		evt := rules.NewEvent(rules.EventActionTaken, e.state.TurnCount, p.Name, "")
		evt.Data = name
		evt.Amount = p.ActionCount
		e.state.emit(evt)
		e.renderer.Result(name, nil)
	}
	return nil
}

func expectArgs(args []string, n int) error {
	if len(args) != n {
		return invalidf("expected %d argument(s), got %d", n, len(args))
	}
	return nil
}

// mover resolves which pawn a movement command moves. Roles that move others
// may name a player as the last argument.
func (e *Engine) mover(p *Player, args []string, want int) (*Player, []string, error) {
	pawn := p
	if capabilitiesFor(p.Role).movesOthers && len(args) == want+1 {
		name := args[len(args)-1]
		target, ok := e.state.Player(name)
		if !ok {
			return nil, nil, invalidf("unknown player %q", name)
		}
		pawn, args = target, args[:len(args)-1]
	}
	if err := expectArgs(args, want); err != nil {
		return nil, nil, err
	}
	return pawn, args, nil
}

func groundAction(e *Engine, p *Player, args []string) error {
	pawn, args, err := e.mover(p, args, 1)
	if err != nil {
		return err
	}
	dest, err := e.state.city(args[0])
	if err != nil {
		return err
	}
	if !pawn.city.IsNeighbor(dest.Name) {
		return violationf(ErrNotAdjacent, "%s is not adjacent to %s", dest.Name, pawn.city.Name)
	}
	e.state.Move(pawn, dest)
	return nil
}

func directAction(e *Engine, p *Player, args []string) error {
	pawn, args, err := e.mover(p, args, 1)
	if err != nil {
		return err
	}
	dest, err := e.state.city(args[0])
	if err != nil {
		return err
	}
	if _, err := e.state.discardFromHand(p, dest.Name); err != nil {
		return err
	}
	e.state.Move(pawn, dest)
	return nil
}

func charterAction(e *Engine, p *Player, args []string) error {
	pawn, args, err := e.mover(p, args, 1)
	if err != nil {
		return err
	}
	dest, err := e.state.city(args[0])
	if err != nil {
		return err
	}
	if _, err := e.state.discardFromHand(p, pawn.city.Name); err != nil {
		return err
	}
	e.state.Move(pawn, dest)
	return nil
}

func shuttleAction(e *Engine, p *Player, args []string) error {
	pawn, args, err := e.mover(p, args, 1)
	if err != nil {
		return err
	}
	dest, err := e.state.city(args[0])
	if err != nil {
		return err
	}
	if !pawn.city.Station {
		return violationf(ErrNoStation, "%s", pawn.city.Name)
	}
	if !dest.Station {
		return violationf(ErrNoStation, "%s", dest.Name)
	}
	e.state.Move(pawn, dest)
	return nil
}

func stationAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 0); err != nil {
		return err
	}
	s := e.state
	city := p.city
	discard := capabilitiesFor(p.Role).stationDiscard
	if city.Station {
		return violationf(ErrStationPresent, "%s", city.Name)
	}
	if discard && !p.HasCard(city.Name) {
		return violationf(ErrNotInHand, "%s does not hold %s", p.Name, city.Name)
	}

	var donor *City
	if s.StationCount == 0 {
		borrow, err := e.confirm("No research stations are left. Move one from another city?")
		if err != nil {
			return err
		}
		if !borrow {
			return violationf(ErrNoStationsLeft, "cannot build in %s", city.Name)
		}
		tokens, err := e.input.Tokens("City to take the research station from")
		if err != nil {
			return err
		}
		if err := expectArgs(tokens, 1); err != nil {
			return err
		}
		if donor, err = s.city(tokens[0]); err != nil {
			return err
		}
		if err := s.RemoveStation(donor.Name); err != nil {
			return err
		}
	}

	var card *Card
	if discard {
		var err error
		if card, err = s.discardFromHand(p, city.Name); err != nil {
			e.restoreStation(donor)
			return err
		}
	}
	if err := s.AddStation(city.Name); err != nil {
		if card != nil {
			s.undoDiscard(p, card)
		}
		e.restoreStation(donor)
		return err
	}
	return nil
}

func (e *Engine) restoreStation(donor *City) {
	if donor == nil {
		return
	}
	if err := e.state.AddStation(donor.Name); err != nil {
		panic(fmt.Sprintf("station pool out of balance restoring %s: %v", donor.Name, err))
	}
}

func treatAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 1); err != nil {
		return err
	}
	color, err := e.state.color(args[0])
	if err != nil {
		return err
	}
	city := p.city
	if city.cubes[color] == 0 {
		return violationf(ErrNoCubes, "%s has no %s cubes", city.Name, color)
	}
	if capabilitiesFor(p.Role).treatAll {
		return e.state.removeCubes(city, color, city.cubes[color])
	}
	return e.state.RemoveDisease(city.Name, color)
}

func shareAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	s := e.state
	target, ok := s.Player(args[0])
	if !ok {
		return invalidf("unknown player %q", args[0])
	}
	if target == p {
		return invalidf("cannot share with yourself")
	}
	if _, err := s.city(args[1]); err != nil {
		return err
	}
	if target.city != p.city {
		return violationf(ErrNotColocated, "%s and %s", p.Name, target.Name)
	}

	var giver, receiver *Player
	switch {
	case p.HasCard(args[1]):
		giver, receiver = p, target
	case target.HasCard(args[1]):
		giver, receiver = target, p
	default:
		return violationf(ErrNotInHand, "neither %s nor %s holds %s", p.Name, target.Name, args[1])
	}
	card := giver.hand[args[1]]
	if !giver.CanShare(card) {
		return violationf(ErrCannotShare, "%s cannot give %s away in %s", giver.Name, card.Name, giver.city.Name)
	}

	delete(giver.hand, card.Name)
	evt := rules.NewEvent(rules.EventCardShared, s.TurnCount, giver.Name, card.Name)
	evt.Metadata["receiver"] = receiver.Name
	s.emit(evt)
	return e.giveCard(receiver, card)
}

func cureAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 1); err != nil {
		return err
	}
	s := e.state
	color, err := s.color(args[0])
	if err != nil {
		return err
	}
	if !p.city.Station {
		return violationf(ErrNoStation, "%s", p.city.Name)
	}
	if !s.Diseases.IsActive(color) {
		return violationf(ErrNotActive, "%s is already %s", color, s.Diseases.Status(color))
	}

	need := p.CureThreshold()
	cards := p.CityCards(color)
	if len(cards) < need {
		return violationf(ErrInsufficientCards, "%s needs %d %s cards, holds %d", p.Name, need, color, len(cards))
	}

	selected := cardNames(cards)
	if len(cards) > need {
		names, err := e.input.SelectCards(fmt.Sprintf("Choose %d %s cards to discard", need, color), cards, need)
		if err != nil {
			return err
		}
		if err := validateSelection(names, cards, need); err != nil {
			return err
		}
		selected = names
	}

	for _, name := range selected {
		if _, err := s.discardFromHand(p, name); err != nil {
			return err
		}
	}
	return s.Cure(color, p.Name)
}

func validateSelection(names []string, options []*Card, count int) error {
	if len(names) != count {
		return invalidf("select exactly %d cards, got %d", count, len(names))
	}
	allowed := make(map[string]bool, len(options))
	for _, c := range options {
		allowed[c.Name] = true
	}
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if !allowed[name] {
			return invalidf("%q is not one of the offered cards", name)
		}
		if seen[name] {
			return invalidf("%q selected twice", name)
		}
		seen[name] = true
	}
	return nil
}

func passAction(e *Engine, p *Player, args []string) error {
	return expectArgs(args, 0)
}

func neighborsCommandRun(e *Engine, p *Player, args []string) error {
	city := p.city
	switch len(args) {
	case 0:
	case 1:
		var err error
		if city, err = e.state.city(args[0]); err != nil {
			return err
		}
	default:
		return invalidf("expected at most 1 argument, got %d", len(args))
	}
	e.renderer.Neighbors(e.state.cityView(city))
	return nil
}

func eventCommandRun(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	holder, ok := e.state.Player(args[0])
	if !ok {
		return invalidf("unknown player %q", args[0])
	}
	return e.PlayEvent(holder, args[1])
}

func statusCommandRun(e *Engine, p *Player, args []string) error {
	e.renderer.Status(e.View())
	return nil
}

// historyCommandRun lists the journal or shows one entry of it. Navigation
// moves the journal cursor only; the game itself is untouched.
func historyCommandRun(e *Engine, p *Player, args []string) error {
	j := e.journal
	if len(args) == 0 {
		entries := make([]*JournalEntry, 0, j.Size())
		for i := 0; i < j.Size(); i++ {
			entries = append(entries, j.At(i))
		}
		e.renderer.History(entries)
		return nil
	}

	var entry *JournalEntry
	switch args[0] {
	case "start", "next", "prev":
		if err := expectArgs(args, 1); err != nil {
			return err
		}
		switch args[0] {
		case "start":
			j.Start()
			entry = j.Next()
		case "next":
			entry = j.Next()
		default:
			entry = j.Previous()
		}
	case "skip":
		if err := expectArgs(args, 2); err != nil {
			return err
		}
		n, err := strconv.Atoi(args[1])
		if err != nil {
			return invalidf("skip count %q is not a number", args[1])
		}
		entry = j.Skip(n)
	default:
		if err := expectArgs(args, 1); err != nil {
			return err
		}
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return invalidf("unknown history option %q", args[0])
		}
		entry = j.At(n)
	}
	if entry == nil {
		return invalidf("no journal entry at that position (%d recorded)", j.Size())
	}
	e.renderer.History([]*JournalEntry{entry})
	e.renderer.Status(entry.View)
	return nil
}

func quitCommandRun(e *Engine, p *Player, args []string) error {
	quit, err := e.confirm("Are you sure you want to quit?")
	if err != nil {
		return err
	}
	if quit {
		return ErrQuit
	}
	return nil
}

func drawCommandRun(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 0); err != nil {
		return err
	}
	return e.drawPlayerCard(p)
}

func infectCommandRun(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 0); err != nil {
		return err
	}
	return e.infect()
}

func airliftAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	pawn, ok := e.state.Player(args[0])
	if !ok {
		return invalidf("unknown player %q", args[0])
	}
	host, ok := e.state.Player(args[1])
	if !ok {
		return invalidf("unknown player %q", args[1])
	}
	if pawn == host {
		return invalidf("airlift needs two different players")
	}
	e.state.Move(pawn, host.city)
	return nil
}

func opexShuttleAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 2); err != nil {
		return err
	}
	s := e.state
	if p.specialMoveUsed {
		return violationf(ErrAbilityUsed, "opex_shuttle")
	}
	if !p.city.Station {
		return violationf(ErrNoStation, "%s", p.city.Name)
	}
	dest, err := s.city(args[0])
	if err != nil {
		return err
	}
	card, ok := p.hand[args[1]]
	if !ok {
		return violationf(ErrNotInHand, "%s does not hold %s", p.Name, args[1])
	}
	if card.Kind != CardCity {
		return invalidf("%s is not a city card", card.Name)
	}
	if _, err := s.discardFromHand(p, card.Name); err != nil {
		return err
	}
	s.Move(p, dest)
	p.specialMoveUsed = true
	return nil
}

func contingencyAction(e *Engine, p *Player, args []string) error {
	if err := expectArgs(args, 1); err != nil {
		return err
	}
	s := e.state
	if p.contingency != nil {
		return violationf(ErrSlotOccupied, "%s holds %s", p.Name, p.contingency.Name)
	}
	card, ok := s.PlayerDeck.PeekDiscard(args[0])
	if !ok {
		return violationf(ErrNotInDiscard, "%s", args[0])
	}
	if card.Kind != CardEvent {
		return violationf(ErrNotEvent, "%s", card.Name)
	}
	if _, err := s.PlayerDeck.Retrieve(card.Name); err != nil {
		return err
	}
	p.contingency = card
	return nil
}
