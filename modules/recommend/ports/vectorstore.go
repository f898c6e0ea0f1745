package ports

import (
	"context"
	"time"
)

// VectorFilter mirrors vectorstore.Filter, declared locally so the
// Matcher never imports modules/vectorstore directly (same
// collaborator-boundary pattern as modules/tenders/ports.Embedder).
type VectorFilter struct {
	Statuses    []string
	Categories  []string
	Regions     []string
	Languages   []string
	MaxDeadline *time.Time
}

// VectorMatch mirrors vectorstore.Match.
type VectorMatch struct {
	TenderID         string
	CosineSimilarity float64
}

// VectorStore is the subset of C2 the Matcher needs for candidate
// generation and the Similar-Tender Service's reference lookup.
type VectorStore interface {
	KNN(ctx context.Context, queryVector []float32, k int, filter VectorFilter) ([]VectorMatch, error)
	GetProfileVector(ctx context.Context, profileID string) ([]float32, error)
	GetTenderVector(ctx context.Context, tenderID string) ([]float32, error)
}
