package service

import (
	"context"

	"github.com/teddycheru/tenderlens/modules/recommend/ports"
	"github.com/teddycheru/tenderlens/modules/vectorstore"
)

// VectorStoreAdapter wraps a *vectorstore.PostgresVectorStore and
// translates its Filter/Match types into ports.VectorFilter/VectorMatch,
// so the Matcher never imports modules/vectorstore directly.
type VectorStoreAdapter struct {
	store *vectorstore.PostgresVectorStore
}

func NewVectorStoreAdapter(store *vectorstore.PostgresVectorStore) *VectorStoreAdapter {
	return &VectorStoreAdapter{store: store}
}

func (a *VectorStoreAdapter) KNN(ctx context.Context, queryVector []float32, k int, filter ports.VectorFilter) ([]ports.VectorMatch, error) {
	matches, err := a.store.KNN(ctx, queryVector, k, vectorstore.Filter{
		Statuses:    filter.Statuses,
		Categories:  filter.Categories,
		Regions:     filter.Regions,
		Languages:   filter.Languages,
		MaxDeadline: filter.MaxDeadline,
	})
	if err != nil {
		return nil, err
	}

	out := make([]ports.VectorMatch, len(matches))
	for i, m := range matches {
		out[i] = ports.VectorMatch{TenderID: m.TenderID, CosineSimilarity: m.CosineSimilarity}
	}
	return out, nil
}

func (a *VectorStoreAdapter) GetProfileVector(ctx context.Context, profileID string) ([]float32, error) {
	return a.store.GetProfileVector(ctx, profileID)
}

func (a *VectorStoreAdapter) GetTenderVector(ctx context.Context, tenderID string) ([]float32, error) {
	return a.store.GetTenderVector(ctx, tenderID)
}
