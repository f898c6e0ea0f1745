// Package vectorstore implements the vector store: a persistent ANN
// index over tender embeddings, key-value storage for profile
// embeddings, and metadata-filtered KNN/range queries.
package vectorstore

import "time"

// Filter is the conjunction of rule predicates a KNN/range query is
// restricted to, mirroring the Matcher's hard filters.
type Filter struct {
	Statuses     []string
	Categories   []string
	Regions      []string
	Languages    []string
	MaxDeadline  *time.Time
	ExcludeAfter *time.Time
}

// TenderMetadata is the denormalized filter surface copied into the
// vector store at upsert time, so KNN/range queries never need to join
// back to the tenders table.
type TenderMetadata struct {
	Category     string
	Region       string
	Deadline     *time.Time
	Status       string
	BudgetAmount *float64
	Language     string
}

// Match is one KNN/range result: a tender id and its cosine similarity
// to the query vector, in [-1,1] (1 - cosine distance).
type Match struct {
	TenderID         string
	CosineSimilarity float64
}
