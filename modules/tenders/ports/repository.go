package ports

import (
	"context"
	"time"

	"github.com/teddycheru/tenderlens/modules/tenders/model"
)

// ListFilter narrows a tender listing by the candidate-generation hard
// filters.
type ListFilter struct {
	Status    string
	Sectors   []string
	Regions   []string
	DaysAhead int
	Limit     int
	Offset    int
}

// TenderRepository defines the interface for tender data access.
type TenderRepository interface {
	Create(ctx context.Context, tender *model.Tender) error
	GetByID(ctx context.Context, tenderID string) (*model.Tender, error)
	GetByIDs(ctx context.Context, tenderIDs []string) ([]*model.Tender, error)
	List(ctx context.Context, filter ListFilter) ([]*model.TenderDTO, int, error)
	Update(ctx context.Context, tender *model.Tender) error
	Delete(ctx context.Context, tenderID string) error

	// IncrementPopularity bumps a tender's per-kind counters and
	// popularity score by the feedback processor's interaction weight.
	IncrementPopularity(ctx context.Context, tenderID, interactionType string, weight float64) error

	// PopularityPercentile returns the rolling P-th percentile of
	// popularity scores over published tenders.
	PopularityPercentile(ctx context.Context, percentile float64) (float64, error)

	// SetEmbeddingUpdatedAt stamps the last successful embed time.
	SetEmbeddingUpdatedAt(ctx context.Context, tenderID string, at time.Time) error
}
