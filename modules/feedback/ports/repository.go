package ports

import (
	"context"

	"github.com/teddycheru/tenderlens/modules/feedback/model"
)

// InteractionRepository defines the interface for the append-only
// interaction log and its derived aggregates.
type InteractionRepository interface {
	// Create persists one interaction. The unique
	// (user_id, tender_id, interaction_type, dedup_bucket) constraint
	// makes this idempotent: created is false when the row already
	// existed, in which case no counters should be bumped again.
	Create(ctx context.Context, interaction *model.Interaction) (created bool, err error)

	Stats(ctx context.Context, userID string) (*model.InteractionStats, error)

	// ListDismissedTenderIDs backs modules/recommend's hard filter.
	ListDismissedTenderIDs(ctx context.Context, userID string) ([]string, error)

	// CountPositiveByCategory counts save/apply/rate_positive
	// interactions a user has made against tenders in the given
	// category, for the discovered_interests rule.
	CountPositiveByCategory(ctx context.Context, userID, category string) (int, error)

	// CountDismissedByRegion counts dismiss interactions a user has made
	// against tenders in the given region, for the dismiss-learning rule.
	CountDismissedByRegion(ctx context.Context, userID, region string) (int, error)
}
