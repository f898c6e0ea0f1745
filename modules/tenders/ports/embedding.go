package ports

import "context"

// Embedder converts composed text into a fixed-dimension dense vector
// (C1, implemented by internal/platform/embedclient). Declared here so
// the tenders service can trigger re-embeds without importing the
// embedding client package directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// TenderVectorUpserter persists a tender's embedding into the vector
// store (C2, implemented by modules/vectorstore).
type TenderVectorUpserter interface {
	UpsertTenderVector(ctx context.Context, tenderID string, vector []float32, metadata map[string]interface{}) error
}
