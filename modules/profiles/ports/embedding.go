package ports

import "context"

// Embedder converts already-composed profile text into a dense vector.
// Declared here (mirroring modules/tenders/ports.Embedder) so this
// module never imports internal/platform/embedclient directly.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// ProfileVectorStore is the subset of the vector store the feedback
// re-embed trigger needs: upsert on success, lookup for Similar/explain
// flows that read a profile's own embedding.
type ProfileVectorStore interface {
	UpsertProfileVector(ctx context.Context, profileID string, vector []float32) error
	GetProfileVector(ctx context.Context, profileID string) ([]float32, error)
}
