package game

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// JournalEntry is the state of the game at one phase boundary.
type JournalEntry struct {
	ID         string    `json:"id"`
	Turn       int       `json:"turn"`
	Phase      string    `json:"phase"`
	Checksum   string    `json:"checksum"`
	View       View      `json:"view"`
	RecordedAt time.Time `json:"recorded_at"`
}

// Journal is an in-memory record of phase boundaries with a playback cursor.
// Spectators read it from other goroutines.
type Journal struct {
	mu      sync.RWMutex
	entries []*JournalEntry
	index   int
}

// NewJournal creates an empty journal.
func NewJournal() *Journal {
	return &Journal{entries: make([]*JournalEntry, 0)}
}

// Record appends an entry for the current state.
func (j *Journal) Record(s *State) (*JournalEntry, error) {
	sum, err := s.Checksum()
	if err != nil {
		return nil, err
	}
	entry := &JournalEntry{
		ID:         uuid.NewString(),
		Turn:       s.TurnCount,
		Phase:      s.Phase.String(),
		Checksum:   sum.Hash,
		View:       s.View(),
		RecordedAt: time.Now(),
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, entry)
	return entry, nil
}

// Start rewinds the cursor to the first entry.
func (j *Journal) Start() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.index = 0
}

// Next returns the entry under the cursor and advances it.
func (j *Journal) Next() *JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.index < len(j.entries) {
		entry := j.entries[j.index]
		j.index++
		return entry
	}
	return nil
}

// Previous moves the cursor back and returns that entry.
func (j *Journal) Previous() *JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	if j.index > 0 {
		j.index--
		return j.entries[j.index]
	}
	return nil
}

// Skip moves the cursor by count entries, clamped to the journal.
func (j *Journal) Skip(count int) *JournalEntry {
	j.mu.Lock()
	defer j.mu.Unlock()

	newIndex := j.index + count
	if newIndex >= len(j.entries) {
		newIndex = len(j.entries) - 1
	}
	if newIndex < 0 {
		newIndex = 0
	}

	j.index = newIndex
	if j.index < len(j.entries) {
		return j.entries[j.index]
	}
	return nil
}

// Size returns the number of entries.
func (j *Journal) Size() int {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return len(j.entries)
}

// At returns the entry at index, or nil.
func (j *Journal) At(index int) *JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if index >= 0 && index < len(j.entries) {
		return j.entries[index]
	}
	return nil
}

// Latest returns the most recent entry, or nil.
func (j *Journal) Latest() *JournalEntry {
	j.mu.RLock()
	defer j.mu.RUnlock()

	if len(j.entries) == 0 {
		return nil
	}
	return j.entries[len(j.entries)-1]
}

