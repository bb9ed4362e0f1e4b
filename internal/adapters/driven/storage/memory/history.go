// Package memory provides in-memory implementations of storage ports,
// used in tests and when persistence is disabled.
package memory

import (
	"context"
	"sync"

	"github.com/memolab/vaultscribe/internal/core/domain"
	"github.com/memolab/vaultscribe/internal/core/ports/driven"
)

// Ensure HistoryStore implements the interface.
var _ driven.HistoryStore = (*HistoryStore)(nil)

// HistoryStore keeps processing results in memory, newest last.
type HistoryStore struct {
	mu      sync.RWMutex
	results []domain.ProcessResult
}

// NewHistoryStore creates an empty in-memory history store.
func NewHistoryStore() *HistoryStore {
	return &HistoryStore{}
}

// Record stores one terminal processing result.
func (s *HistoryStore) Record(_ context.Context, result *domain.ProcessResult) error {
	if result == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results = append(s.results, *result)
	return nil
}

// Recent returns the most recent results, newest first.
func (s *HistoryStore) Recent(_ context.Context, limit int) ([]domain.ProcessResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProcessResult, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.results[i])
	}
	return out, nil
}

// RecentForPath returns the most recent results for one note, newest first.
func (s *HistoryStore) RecentForPath(_ context.Context, path string, limit int) ([]domain.ProcessResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.ProcessResult, 0, limit)
	for i := len(s.results) - 1; i >= 0 && len(out) < limit; i-- {
		if s.results[i].Path == path {
			out = append(out, s.results[i])
		}
	}
	return out, nil
}

// Prune deletes all but the newest keep results.
func (s *HistoryStore) Prune(_ context.Context, keep int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if keep < 0 {
		keep = 0
	}
	if len(s.results) > keep {
		s.results = append([]domain.ProcessResult(nil), s.results[len(s.results)-keep:]...)
	}
	return nil
}

// Close releases resources.
func (s *HistoryStore) Close() error {
	return nil
}
