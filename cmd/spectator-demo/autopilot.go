package main

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/marcsingleton/Pydemic/internal/game"
	"github.com/marcsingleton/Pydemic/internal/game/rules"
)

// autopilot answers every prompt with the least eventful legal response:
// pass actions, draw and infect when asked, discard the first card over the
// hand limit and decline every optional choice.
type autopilot struct {
	engine *game.Engine
}

func (a *autopilot) Tokens(prompt string) ([]string, error) {
	s := a.engine.State()
	for _, p := range s.Players() {
		if p.HandSize() > p.HandMax {
			return []string{"discard", p.Hand()[0].Name}, nil
		}
	}
	switch s.Phase {
	case rules.PhaseDraw:
		return []string{"draw"}, nil
	case rules.PhaseInfect:
		return []string{"infect"}, nil
	default:
		return []string{"pass"}, nil
	}
}

func (a *autopilot) Confirm(prompt string) (bool, error) {
	return false, nil
}

func (a *autopilot) Permutation(prompt string, cards []*game.Card) (string, error) {
	var b strings.Builder
	for i := range cards {
		b.WriteString(strconv.Itoa(i))
	}
	return b.String(), nil
}

func (a *autopilot) SelectCards(prompt string, options []*game.Card, count int) ([]string, error) {
	names := make([]string, 0, count)
	for _, c := range options[:min(count, len(options))] {
		names = append(names, c.Name)
	}
	return names, nil
}

// paced delays every response of the wrapped provider so spectators can
// follow the game.
type paced struct {
	ctx   context.Context
	delay time.Duration
	next  game.InputProvider
}

func (p *paced) wait() error {
	if p.delay <= 0 {
		return p.ctx.Err()
	}
	t := time.NewTimer(p.delay)
	defer t.Stop()
	select {
	case <-p.ctx.Done():
		return p.ctx.Err()
	case <-t.C:
		return nil
	}
}

func (p *paced) Tokens(prompt string) ([]string, error) {
	if err := p.wait(); err != nil {
		return nil, err
	}
	return p.next.Tokens(prompt)
}

func (p *paced) Confirm(prompt string) (bool, error) {
	if err := p.wait(); err != nil {
		return false, err
	}
	return p.next.Confirm(prompt)
}

func (p *paced) Permutation(prompt string, cards []*game.Card) (string, error) {
	if err := p.wait(); err != nil {
		return "", err
	}
	return p.next.Permutation(prompt, cards)
}

func (p *paced) SelectCards(prompt string, options []*game.Card, count int) ([]string, error) {
	if err := p.wait(); err != nil {
		return nil, err
	}
	return p.next.SelectCards(prompt, options, count)
}
