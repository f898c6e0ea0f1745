package ports

import "context"

// InteractionRepository is the subset of the Feedback Processor's
// append-only log the Matcher needs to exclude tenders a user has
// already dismissed.
type InteractionRepository interface {
	ListDismissedTenderIDs(ctx context.Context, userID string) ([]string, error)
}
