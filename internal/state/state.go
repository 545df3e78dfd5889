// Package state persists the set of fonts the user has uninstalled.
package state

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
)

// Store holds the hidden-font set and rewrites its backing file after every
// mutation. A font enters the set only after its files were actually removed
// and leaves it only after a successful install.
type Store struct {
	path string

	mu     sync.Mutex
	hidden map[string]struct{}
}

type stateFile struct {
	HiddenFonts []string `json:"hidden_fonts"`
}

// Open loads the store from path. A missing or unreadable file is not an
// error; it simply loads as the empty set.
func Open(path string) *Store {
	s := &Store{
		path:   path,
		hidden: make(map[string]struct{}),
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return s
	}
	var payload stateFile
	if err := json.Unmarshal(data, &payload); err != nil {
		return s
	}
	for _, id := range payload.HiddenFonts {
		s.hidden[id] = struct{}{}
	}
	return s
}

// Hidden returns the hidden identifiers, sorted.
func (s *Store) Hidden() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.sortedLocked()
}

// Contains reports whether an identifier is in the hidden set.
func (s *Store) Contains(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.hidden[id]
	return ok
}

// Add puts identifiers into the hidden set and persists. A call that changes
// nothing skips the write entirely.
func (s *Store) Add(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, id := range ids {
		if _, ok := s.hidden[id]; !ok {
			s.hidden[id] = struct{}{}
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveLocked()
}

// Remove takes identifiers out of the hidden set and persists. A call that
// changes nothing skips the write entirely.
func (s *Store) Remove(ids ...string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	changed := false
	for _, id := range ids {
		if _, ok := s.hidden[id]; ok {
			delete(s.hidden, id)
			changed = true
		}
	}
	if !changed {
		return nil
	}
	return s.saveLocked()
}

func (s *Store) sortedLocked() []string {
	ids := make([]string, 0, len(s.hidden))
	for id := range s.hidden {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func (s *Store) saveLocked() error {
	payload := stateFile{HiddenFonts: s.sortedLocked()}
	data, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding state: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("creating state directory: %w", err)
	}
	if err := os.WriteFile(s.path, data, 0o644); err != nil {
		return fmt.Errorf("writing state file: %w", err)
	}
	return nil
}
