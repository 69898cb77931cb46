package memory

import (
	"context"
	"sync"

	"github.com/aretw0/espalier/pkg/domain"
)

// Store implements ports.TranscriptStore in memory.
// Safe for concurrent use.
type Store struct {
	data map[string]*domain.Transcript
	mu   sync.RWMutex
}

// NewStore creates a new in-memory store.
func NewStore() *Store {
	return &Store{
		data: make(map[string]*domain.Transcript),
	}
}

// Save persists the transcript in memory.
func (s *Store) Save(ctx context.Context, transcript *domain.Transcript) error {
	copied := clone(transcript)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[transcript.ID] = copied
	return nil
}

// Load retrieves a transcript from memory.
func (s *Store) Load(ctx context.Context, id string) (*domain.Transcript, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	transcript, ok := s.data[id]
	if !ok {
		return nil, domain.ErrTranscriptNotFound
	}

	// Copy on read so callers can't mutate store state through the pointer.
	return clone(transcript), nil
}

// Delete removes the transcript.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, id)
	return nil
}

// List returns the IDs of all stored transcripts.
func (s *Store) List(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, 0, len(s.data))
	for id := range s.data {
		ids = append(ids, id)
	}
	return ids, nil
}

// clone deep-copies a transcript, detaching the slices and the exit
// code pointer so store contents stay isolated from callers.
func clone(t *domain.Transcript) *domain.Transcript {
	copied := *t

	if t.Script != nil {
		copied.Script = make(domain.Script, len(t.Script))
		copy(copied.Script, t.Script)
	}
	if t.Result.Events != nil {
		copied.Result.Events = make([]domain.Event, len(t.Result.Events))
		copy(copied.Result.Events, t.Result.Events)
	}
	if t.Result.ExitCode != nil {
		code := *t.Result.ExitCode
		copied.Result.ExitCode = &code
	}

	return &copied
}
