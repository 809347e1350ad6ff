package catalog

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"github.com/agentstation/utc"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/sunstyle/sunstyle/pkg/errors"
)

// document is the persisted representation: a single JSON document holding
// the full catalog. The "prendas" key is shared with the original db.json.
type document struct {
	Prendas []Item `json:"prendas"`
}

// Store owns the in-memory catalog and its persisted JSON document.
//
// The catalog is mutated only through Append, which the synchronization
// protocol calls from a single goroutine; Snapshot may be called from any
// goroutine. Every successful append overwrites the whole document via a
// temp-file-plus-rename so a crash mid-write never corrupts older entries.
type Store struct {
	path   string
	mu     sync.RWMutex
	items  []Item
	logger *zerolog.Logger
}

// NewStore creates a store persisting to the given file path.
func NewStore(path string, logger *zerolog.Logger) *Store {
	return &Store{path: path, logger: logger}
}

// Load reads the persisted catalog at process start. A missing or corrupt
// document is a recoverable, logged condition: the store starts empty.
func (s *Store) Load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			s.logger.Info().
				Str("path", s.path).
				Msg("No persisted catalog, starting empty")
			return
		}
		loadErr := &errors.LoadError{Path: s.path, Err: err}
		s.logger.Warn().Err(loadErr).Msg("Failed to read persisted catalog, starting empty")
		return
	}

	var doc document
	if err := json.Unmarshal(data, &doc); err != nil {
		loadErr := &errors.LoadError{Path: s.path, Err: err}
		s.logger.Warn().Err(loadErr).Msg("Persisted catalog is corrupt, starting empty")
		return
	}

	s.mu.Lock()
	s.items = doc.Prendas
	s.mu.Unlock()

	s.logger.Info().
		Int("items", len(doc.Prendas)).
		Str("path", s.path).
		Msg("Catalog loaded")
}

// Snapshot returns a copy of the catalog in display order, most-recent-first.
func (s *Store) Snapshot() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Len returns the number of items in the catalog.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// Append assigns the item's identity and acceptance timestamp, prepends it
// to the in-memory catalog, and persists the full document synchronously.
// The stored item is returned.
//
// Persistence failure is logged but does not roll back the in-memory
// append: the accepted item stays visible to live connections even when
// durability failed (availability over durability).
func (s *Store) Append(item Item) Item {
	item.ID = uuid.NewString()
	item.Fecha = utc.Now()

	s.mu.Lock()
	s.items = append([]Item{item}, s.items...)
	err := s.persistLocked()
	s.mu.Unlock()

	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to persist catalog, in-memory state remains authoritative")
	}
	return item
}

// persistLocked overwrites the persisted document with the whole catalog.
// It writes to a temp file in the same directory and renames it into place
// so readers never observe a partial write. Callers must hold s.mu.
func (s *Store) persistLocked() error {
	data, err := json.MarshalIndent(document{Prendas: s.items}, "", "  ")
	if err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}

	tmp := s.path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return &errors.PersistenceError{Path: s.path, Err: err}
	}
	return nil
}
