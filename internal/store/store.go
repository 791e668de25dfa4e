package store

import (
	"fmt"
	"sort"

	"TotoSentinel/internal/model"
)

// NotFoundError is returned when a draw id is not present in the store.
type NotFoundError struct {
	ID int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("draw %d not found", e.ID)
}

// Store is an immutable table of draws ordered newest first (descending id).
type Store struct {
	draws []model.Draw
	index map[int]int
}

// New builds a store from draws in any order. Duplicate ids are rejected.
func New(draws []model.Draw) (*Store, error) {
	sorted := make([]model.Draw, len(draws))
	copy(sorted, draws)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].ID > sorted[j].ID })

	index := make(map[int]int, len(sorted))
	for i, d := range sorted {
		if _, dup := index[d.ID]; dup {
			return nil, fmt.Errorf("duplicate draw id %d", d.ID)
		}
		index[d.ID] = i
	}
	return &Store{draws: sorted, index: index}, nil
}

// Len returns the number of draws.
func (s *Store) Len() int { return len(s.draws) }

// Draws returns all draws newest first. The slice must not be modified.
func (s *Store) Draws() []model.Draw { return s.draws }

// Contains reports whether id exists.
func (s *Store) Contains(id int) bool {
	_, ok := s.index[id]
	return ok
}

// Find returns the draw with the given id.
func (s *Store) Find(id int) (model.Draw, error) {
	i, ok := s.index[id]
	if !ok {
		return model.Draw{}, &NotFoundError{ID: id}
	}
	return s.draws[i], nil
}

// Latest returns the newest draw, or false on an empty store.
func (s *Store) Latest() (model.Draw, bool) {
	if len(s.draws) == 0 {
		return model.Draw{}, false
	}
	return s.draws[0], true
}

// OlderCount returns how many draws have an id strictly smaller than id.
func (s *Store) OlderCount(id int) (int, error) {
	i, ok := s.index[id]
	if !ok {
		return 0, &NotFoundError{ID: id}
	}
	return len(s.draws) - i - 1, nil
}

// Preceding returns up to n draws strictly older than id, newest first.
// A window shorter than n is not an error.
func (s *Store) Preceding(id, n int) ([]model.Draw, error) {
	i, ok := s.index[id]
	if !ok {
		return nil, &NotFoundError{ID: id}
	}
	if n <= 0 {
		return nil, nil
	}
	start := i + 1
	end := start + n
	if end > len(s.draws) {
		end = len(s.draws)
	}
	return s.draws[start:end], nil
}
