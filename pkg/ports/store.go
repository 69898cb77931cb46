package ports

import (
	"context"

	"github.com/aretw0/espalier/pkg/domain"
)

// TranscriptStore persists run transcripts.
//
// Implementations must return domain.ErrTranscriptNotFound from Load for
// unknown IDs, and treat Delete of a missing transcript as a no-op.
type TranscriptStore interface {
	// Save persists a transcript under its ID, overwriting any previous
	// transcript with the same ID.
	Save(ctx context.Context, transcript *domain.Transcript) error

	// Load retrieves a transcript by ID.
	Load(ctx context.Context, id string) (*domain.Transcript, error)

	// Delete removes a transcript.
	Delete(ctx context.Context, id string) error

	// List returns the stored transcript IDs.
	List(ctx context.Context) ([]string, error)
}
