package favorites

import (
	"encoding/json"
	"fmt"

	"github.com/peterpolkadot/crypto-search/services/web/internal/metrics"
	"github.com/sirupsen/logrus"
)

// SaveFunc persists the encoded set. It is called synchronously from Toggle.
type SaveFunc func(raw []byte) error

// Set is one client's favorite coin ids. It is owned by whoever loaded it
// and is not safe for concurrent use.
type Set struct {
	ids    []int64
	save   SaveFunc
	logger *logrus.Logger
}

// Load builds a set from the raw persisted value. Missing or corrupted data
// gives an empty set; corruption is logged, never returned.
func Load(raw []byte, save SaveFunc, logger *logrus.Logger) *Set {
	ids, err := Decode(raw)
	if err != nil {
		logger.WithError(err).Warn("Stored favorites are corrupted, starting with an empty set")
		metrics.FavoritesCorrupted.Inc()
		ids = nil
	}

	return &Set{
		ids:    ids,
		save:   save,
		logger: logger,
	}
}

// Decode parses the persisted form, a JSON array of coin ids.
func Decode(raw []byte) ([]int64, error) {
	if len(raw) == 0 {
		return nil, nil
	}

	var ids []int64
	if err := json.Unmarshal(raw, &ids); err != nil {
		return nil, fmt.Errorf("failed to decode favorites: %w", err)
	}
	return dedupe(ids), nil
}

func Encode(ids []int64) ([]byte, error) {
	if ids == nil {
		ids = []int64{}
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("failed to encode favorites: %w", err)
	}
	return raw, nil
}

func (s *Set) Contains(id int64) bool {
	return s.index(id) >= 0
}

// IDs returns the ids in the order they were added.
func (s *Set) IDs() []int64 {
	out := make([]int64, len(s.ids))
	copy(out, s.ids)
	return out
}

func (s *Set) Len() int {
	return len(s.ids)
}

// Toggle removes id if present, otherwise appends it, then persists. If the
// save fails the set is restored and the error returned. It reports whether
// id is a favorite afterwards.
func (s *Set) Toggle(id int64) (bool, error) {
	previous := s.ids

	var added bool
	if i := s.index(id); i >= 0 {
		next := make([]int64, 0, len(s.ids)-1)
		next = append(next, s.ids[:i]...)
		s.ids = append(next, s.ids[i+1:]...)
	} else {
		next := make([]int64, 0, len(s.ids)+1)
		next = append(next, s.ids...)
		s.ids = append(next, id)
		added = true
	}

	if err := s.persist(); err != nil {
		s.ids = previous
		return !added, err
	}

	s.logger.WithFields(logrus.Fields{
		"coin_id": id,
		"added":   added,
		"count":   len(s.ids),
	}).Debug("Toggled favorite")

	return added, nil
}

func (s *Set) persist() error {
	if s.save == nil {
		return nil
	}

	raw, err := Encode(s.ids)
	if err != nil {
		return err
	}
	if err := s.save(raw); err != nil {
		return fmt.Errorf("failed to save favorites: %w", err)
	}
	return nil
}

func (s *Set) index(id int64) int {
	for i, existing := range s.ids {
		if existing == id {
			return i
		}
	}
	return -1
}

func dedupe(ids []int64) []int64 {
	seen := make(map[int64]struct{}, len(ids))
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}
