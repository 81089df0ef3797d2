// Package history keeps the bounded ledger of executed commands and their
// outcomes. Entries are immutable once added; the oldest entry is evicted
// when the ledger is full.
package history

import (
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"matrixterm/internal/logging"
)

// DefaultCapacity is the ledger size used when none is configured.
const DefaultCapacity = 100

// Entry records one executed command.
type Entry struct {
	ID           string    `json:"id"`
	Command      string    `json:"command"`
	Output       []string  `json:"output"`
	Timestamp    time.Time `json:"timestamp"`
	Success      bool      `json:"success"`
	ErrorMessage string    `json:"error_message,omitempty"`
}

// NewEntry stamps a new entry with a fresh ID and the current time.
func NewEntry(command string, output []string, success bool, errMsg string) Entry {
	out := make([]string, len(output))
	copy(out, output)
	return Entry{
		ID:           uuid.New().String(),
		Command:      command,
		Output:       out,
		Timestamp:    time.Now(),
		Success:      success,
		ErrorMessage: errMsg,
	}
}

// Stats summarizes the ledger.
type Stats struct {
	Total       int     `json:"total"`
	Successful  int     `json:"successful"`
	Failed      int     `json:"failed"`
	SuccessRate float64 `json:"success_rate"` // percent, 0 when empty
}

// Ledger is a bounded, ordered log of entries (oldest first).
type Ledger struct {
	mu       sync.RWMutex
	entries  []Entry
	capacity int
}

// NewLedger creates a ledger holding at most capacity entries.
// A non-positive capacity falls back to DefaultCapacity.
func NewLedger(capacity int) *Ledger {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Ledger{
		entries:  make([]Entry, 0, capacity),
		capacity: capacity,
	}
}

// Capacity returns the maximum number of entries kept.
func (l *Ledger) Capacity() int {
	return l.capacity
}

// Add appends an entry, evicting the oldest when full.
func (l *Ledger) Add(entry Entry) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(l.entries) >= l.capacity {
		evicted := l.entries[0]
		l.entries = append(l.entries[:0], l.entries[1:]...)
		logging.HistoryDebug("Evicted oldest entry %s (%q)", evicted.ID, evicted.Command)
	}
	l.entries = append(l.entries, entry)
	logging.HistoryDebug("Recorded %q success=%v (%d/%d)", entry.Command, entry.Success, len(l.entries), l.capacity)
}

// Len returns the number of entries.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.entries)
}

// All returns every entry in chronological order.
func (l *Ledger) All() []Entry {
	return l.Recent(l.capacity)
}

// Recent returns the last n entries in chronological order.
func (l *Ledger) Recent(n int) []Entry {
	l.mu.RLock()
	defer l.mu.RUnlock()

	if n <= 0 {
		return []Entry{}
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	out := make([]Entry, n)
	copy(out, l.entries[len(l.entries)-n:])
	return out
}

// Search returns entries whose command contains pattern, ignoring case.
// An empty pattern matches nothing.
func (l *Ledger) Search(pattern string) []Entry {
	out := []Entry{}
	if pattern == "" {
		return out
	}
	needle := strings.ToLower(pattern)

	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, e := range l.entries {
		if strings.Contains(strings.ToLower(e.Command), needle) {
			out = append(out, e)
		}
	}
	return out
}

// Stats returns totals and the success rate in percent.
func (l *Ledger) Stats() Stats {
	l.mu.RLock()
	defer l.mu.RUnlock()

	var s Stats
	s.Total = len(l.entries)
	for _, e := range l.entries {
		if e.Success {
			s.Successful++
		} else {
			s.Failed++
		}
	}
	if s.Total > 0 {
		s.SuccessRate = float64(s.Successful) / float64(s.Total) * 100
	}
	return s
}

// Clear removes every entry.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = l.entries[:0]
	logging.HistoryDebug("Ledger cleared")
}
