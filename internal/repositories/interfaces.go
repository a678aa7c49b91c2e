package repositories

import (
	"context"

	"github.com/talkpal-app/conversation-service/internal/models"
)

// DocumentStore persists the whole user document as a single unit.
// Implementations follow load → mutate → save semantics with no
// locking: two writers racing on the same document lose updates
// (last write wins). Callers accept this; see DESIGN.md.
type DocumentStore interface {
	// Load returns the persisted document. A missing or malformed
	// backing artifact is treated as "no data" and yields an empty
	// document, never an error.
	Load(ctx context.Context) (*models.Document, error)

	// Save overwrites the persisted document in its entirety. Write
	// failures propagate to the caller.
	Save(ctx context.Context, doc *models.Document) error
}
