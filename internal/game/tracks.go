package game

import (
	"github.com/zyedidia/generic/mapset"
)

type outbreakKey struct {
	city  string
	color Color
}

// OutbreakTrack counts outbreaks and remembers which (city, color) pairs
// already broke out during the current draw or infect event.
type OutbreakTrack struct {
	Count    int
	Max      int
	resolved mapset.Set[outbreakKey]
}

// NewOutbreakTrack creates a track that loses the game when Count reaches limit.
func NewOutbreakTrack(limit int) *OutbreakTrack {
	return &OutbreakTrack{Max: limit, resolved: mapset.New[outbreakKey]()}
}

// Resolved reports whether the pair already broke out in this event.
func (t *OutbreakTrack) Resolved(city string, color Color) bool {
	return t.resolved.Has(outbreakKey{city: city, color: color})
}

func (t *OutbreakTrack) markResolved(city string, color Color) {
	t.resolved.Put(outbreakKey{city: city, color: color})
}

// ResolvedCount returns the number of pairs resolved in this event.
func (t *OutbreakTrack) ResolvedCount() int {
	return t.resolved.Size()
}

// Increment records one outbreak.
func (t *OutbreakTrack) Increment() error {
	t.Count++
	if t.Count >= t.Max {
		return lose("outbreak limit of %d reached", t.Max)
	}
	return nil
}

// Reset clears the resolved set before an independent draw or infect event.
func (t *OutbreakTrack) Reset() {
	if t.resolved.Size() == 0 {
		return
	}
	t.resolved = mapset.New[outbreakKey]()
}

// InfectionTrack is the monotonic infection rate sequence.
type InfectionTrack struct {
	Track    []int
	Position int
}

// NewInfectionTrack creates a track at position 0.
func NewInfectionTrack(rates []int) *InfectionTrack {
	track := make([]int, len(rates))
	copy(track, rates)
	return &InfectionTrack{Track: track}
}

// Rate is the number of cities infected per turn.
func (t *InfectionTrack) Rate() int {
	if len(t.Track) == 0 {
		return 0
	}
	return t.Track[t.Position]
}

// Increment advances the position, stopping at the last entry.
func (t *InfectionTrack) Increment() {
	if t.Position < len(t.Track)-1 {
		t.Position++
	}
}
