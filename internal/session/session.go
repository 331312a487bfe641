// Package session holds the single current-document slot. A snapshot is
// built in full before it is swapped in, so readers see either the previous
// document or the new one, never a torn mix.
package session

import (
	"sync/atomic"

	"study-assistant/internal/index"
	"study-assistant/internal/models"
)

// Snapshot bundles an uploaded document with everything derived from it.
// Treated as immutable after the swap.
type Snapshot struct {
	Document models.Document
	Chunks   []string
	Index    *index.Index
	Summary  []string
}

// Store is the process-wide slot for the active document.
type Store struct {
	current atomic.Pointer[Snapshot]
}

func NewStore() *Store {
	return &Store{}
}

// Load returns the active snapshot, or nil when nothing has been uploaded.
func (s *Store) Load() *Snapshot {
	return s.current.Load()
}

// Swap replaces the active snapshot wholesale and returns the previous one
// so its upload artifacts can be cleaned up.
func (s *Store) Swap(snap *Snapshot) *Snapshot {
	return s.current.Swap(snap)
}
