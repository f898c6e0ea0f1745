package ports

import (
	"context"
	"time"

	"github.com/teddycheru/tenderlens/modules/profiles/model"
)

// ProfileRepository defines the interface for company-profile data access.
type ProfileRepository interface {
	Create(ctx context.Context, profile *model.CompanyProfile) error
	GetByID(ctx context.Context, profileID string) (*model.CompanyProfile, error)
	GetByAccountID(ctx context.Context, accountID string) (*model.CompanyProfile, error)
	Update(ctx context.Context, profile *model.CompanyProfile) error
	Delete(ctx context.Context, profileID string) error

	// MarkEmbeddingDirty sets the profile's dirty flag without touching
	// other fields; used by the feedback loop.
	MarkEmbeddingDirty(ctx context.Context, profileID string) error

	// ClearEmbeddingDirty records a successful re-embed: resets the dirty
	// flag, the since-last-embed counter, and stamps embedding_updated_at.
	ClearEmbeddingDirty(ctx context.Context, profileID string, embeddedAt time.Time) error

	// IncrementInteractionCounters bumps both the lifetime and
	// since-last-embed interaction counters by one.
	IncrementInteractionCounters(ctx context.Context, profileID string) error
}
