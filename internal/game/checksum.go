package game

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
)

// Checksum identifies a game state. Two games built from the same seed and
// fed the same decisions produce the same hash at every step.
type Checksum struct {
	Hash    string
	Version int
}

// Checksum hashes a canonical text rendering of the state. Map iteration
// order, event IDs and timestamps do not contribute.
func (s *State) Checksum() (*Checksum, error) {
	hash := sha256.New()
	if _, err := hash.Write([]byte(s.canonical())); err != nil {
		return nil, fmt.Errorf("failed to compute hash: %w", err)
	}
	return &Checksum{
		Hash:    hex.EncodeToString(hash.Sum(nil)),
		Version: 1,
	}, nil
}

func (s *State) canonical() string {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "GAME:%d|%s|%d|%d|%d|%t\n",
		s.TurnCount,
		s.Phase,
		s.DrawCount,
		s.InfectCount,
		s.StationCount,
		s.quietNight,
	)
	fmt.Fprintf(&buf, "TRACKS:%d/%d|%d:%v\n",
		s.Outbreaks.Count,
		s.Outbreaks.Max,
		s.Infection.Position,
		s.Infection.Track,
	)

	for _, color := range s.Diseases.Colors() {
		d, _ := s.Diseases.Get(color)
		fmt.Fprintf(&buf, "DISEASE:%s|%d|%s\n", color, d.Cubes, d.Status)
	}

	// Board order is fixed by the map.
	for _, c := range s.Board.Cities() {
		fmt.Fprintf(&buf, "CITY:%s|%t", c.Name, c.Station)
		for _, color := range s.Diseases.Colors() {
			fmt.Fprintf(&buf, "|%d", c.cubes[color])
		}
		fmt.Fprintf(&buf, "|%s\n", strings.Join(c.Occupants(), ","))
	}

	for _, p := range s.Players() {
		city := ""
		if p.city != nil {
			city = p.city.Name
		}
		contingency := ""
		if p.contingency != nil {
			contingency = p.contingency.Name
		}
		fmt.Fprintf(&buf, "PLAYER:%s|%s|%s|%d|%t|%s|%s\n",
			p.Name,
			p.Role,
			city,
			p.ActionCount,
			p.specialMoveUsed,
			contingency,
			strings.Join(cardNames(p.Hand()), ","),
		)
	}

	fmt.Fprintf(&buf, "PLAYER_DRAW:%s\n", strings.Join(cardNames(s.PlayerDeck.DrawPile()), ","))
	fmt.Fprintf(&buf, "PLAYER_DISCARD:%s\n", strings.Join(cardNames(s.PlayerDeck.DiscardPile()), ","))
	fmt.Fprintf(&buf, "PLAYER_REMOVED:%s\n", strings.Join(cardNames(s.PlayerDeck.Removed()), ","))
	fmt.Fprintf(&buf, "INFECTION_DRAW:%s\n", strings.Join(cardNames(s.InfectionDeck.DrawPile()), ","))
	fmt.Fprintf(&buf, "INFECTION_DISCARD:%s\n", strings.Join(cardNames(s.InfectionDeck.DiscardPile()), ","))
	fmt.Fprintf(&buf, "INFECTION_REMOVED:%s\n", strings.Join(cardNames(s.InfectionDeck.Removed()), ","))

	return buf.String()
}
