package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

// PostgresVectorStore implements the vector store on top of Postgres
// and the pgvector extension. Tender embeddings and their
// filterable metadata live in tender_vectors; profile embeddings are a
// simple key-value row in profile_vectors.
type PostgresVectorStore struct {
	pool      *pgxpool.Pool
	dimension int
}

// NewPostgresVectorStore creates a new pgvector-backed vector store for
// embeddings of the given fixed dimension D.
func NewPostgresVectorStore(pool *pgxpool.Pool, dimension int) *PostgresVectorStore {
	return &PostgresVectorStore{pool: pool, dimension: dimension}
}

// UpsertTenderVector persists a tender's embedding plus the metadata
// filters a later KNN/range query needs.
func (s *PostgresVectorStore) UpsertTenderVector(ctx context.Context, tenderID string, vector []float32, metadata map[string]interface{}) error {
	category, _ := metadata["category"].(string)
	region, _ := metadata["region"].(string)
	status, _ := metadata["status"].(string)
	language, _ := metadata["language"].(string)
	deadline, _ := metadata["deadline"].(*time.Time)
	budgetAmount, _ := metadata["budget_amount"].(*float64)

	query := `
		INSERT INTO tender_vectors (tender_id, embedding, category, region, deadline, status, budget_amount, language, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (tender_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			category = EXCLUDED.category,
			region = EXCLUDED.region,
			deadline = EXCLUDED.deadline,
			status = EXCLUDED.status,
			budget_amount = EXCLUDED.budget_amount,
			language = EXCLUDED.language,
			updated_at = EXCLUDED.updated_at
	`

	_, err := s.pool.Exec(ctx, query,
		tenderID, pgvector.NewVector(vector), category, region, deadline, status, budgetAmount, language, time.Now().UTC(),
	)
	return err
}

// UpsertProfileVector persists a company profile's embedding.
func (s *PostgresVectorStore) UpsertProfileVector(ctx context.Context, profileID string, vector []float32) error {
	query := `
		INSERT INTO profile_vectors (profile_id, embedding, updated_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (profile_id) DO UPDATE SET
			embedding = EXCLUDED.embedding,
			updated_at = EXCLUDED.updated_at
	`
	_, err := s.pool.Exec(ctx, query, profileID, pgvector.NewVector(vector), time.Now().UTC())
	return err
}

// GetProfileVector retrieves a company profile's embedding, returning
// (nil, nil) when the profile has never been embedded.
func (s *PostgresVectorStore) GetProfileVector(ctx context.Context, profileID string) ([]float32, error) {
	var vec pgvector.Vector
	err := s.pool.QueryRow(ctx, `SELECT embedding FROM profile_vectors WHERE profile_id = $1`, profileID).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return vec.Slice(), nil
}

// GetTenderVector retrieves a tender's embedding, returning (nil, nil)
// when the tender has never been embedded. Used by the similar-tender
// lookup to load the reference vector directly.
func (s *PostgresVectorStore) GetTenderVector(ctx context.Context, tenderID string) ([]float32, error) {
	var vec pgvector.Vector
	err := s.pool.QueryRow(ctx, `SELECT embedding FROM tender_vectors WHERE tender_id = $1`, tenderID).Scan(&vec)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return vec.Slice(), nil
}

// buildFilter renders the Filter's conjunction as a WHERE clause
// fragment and its positional args, starting at argN.
func buildFilter(filter Filter, argN int, args []interface{}) (string, int, []interface{}) {
	clauses := []string{}

	if len(filter.Statuses) > 0 {
		clauses = append(clauses, fmt.Sprintf("status = ANY($%d)", argN))
		args = append(args, filter.Statuses)
		argN++
	}
	if len(filter.Categories) > 0 {
		clauses = append(clauses, fmt.Sprintf("category = ANY($%d)", argN))
		args = append(args, filter.Categories)
		argN++
	}
	if len(filter.Regions) > 0 {
		clauses = append(clauses, fmt.Sprintf("region = ANY($%d)", argN))
		args = append(args, filter.Regions)
		argN++
	}
	if len(filter.Languages) > 0 {
		clauses = append(clauses, fmt.Sprintf("language = ANY($%d)", argN))
		args = append(args, filter.Languages)
		argN++
	}
	if filter.MaxDeadline != nil {
		clauses = append(clauses, fmt.Sprintf("(deadline IS NULL OR deadline <= $%d)", argN))
		args = append(args, *filter.MaxDeadline)
		argN++
	}

	if len(clauses) == 0 {
		return "", argN, args
	}
	return " AND " + strings.Join(clauses, " AND "), argN, args
}

// KNN returns the k nearest tender vectors to the query vector under
// the filter, in strictly descending cosine similarity, ties broken by
// ascending tender_id.
func (s *PostgresVectorStore) KNN(ctx context.Context, queryVector []float32, k int, filter Filter) ([]Match, error) {
	args := []interface{}{pgvector.NewVector(queryVector)}
	whereExtra, argN, args := buildFilter(filter, 2, args)

	query := fmt.Sprintf(`
		SELECT tender_id, 1 - (embedding <=> $1) AS similarity
		FROM tender_vectors
		WHERE embedding IS NOT NULL%s
		ORDER BY embedding <=> $1 ASC, tender_id ASC
		LIMIT $%d
	`, whereExtra, argN)
	args = append(args, k)

	return s.queryMatches(ctx, query, args)
}

// RangeByScore returns tenders whose cosine similarity to the query
// vector is at least min_sim, in the same ordering as KNN.
func (s *PostgresVectorStore) RangeByScore(ctx context.Context, queryVector []float32, minSim float64, filter Filter, limit int) ([]Match, error) {
	args := []interface{}{pgvector.NewVector(queryVector), minSim}
	whereExtra, argN, args := buildFilter(filter, 3, args)

	query := fmt.Sprintf(`
		SELECT tender_id, 1 - (embedding <=> $1) AS similarity
		FROM tender_vectors
		WHERE embedding IS NOT NULL AND 1 - (embedding <=> $1) >= $2%s
		ORDER BY embedding <=> $1 ASC, tender_id ASC
		LIMIT $%d
	`, whereExtra, argN)
	args = append(args, limit)

	return s.queryMatches(ctx, query, args)
}

func (s *PostgresVectorStore) queryMatches(ctx context.Context, query string, args []interface{}) ([]Match, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var matches []Match
	for rows.Next() {
		var m Match
		if err := rows.Scan(&m.TenderID, &m.CosineSimilarity); err != nil {
			return nil, err
		}
		matches = append(matches, m)
	}
	return matches, rows.Err()
}

// DeleteTenderVector removes a tender's embedding row.
func (s *PostgresVectorStore) DeleteTenderVector(ctx context.Context, tenderID string) error {
	_, err := s.pool.Exec(ctx, `DELETE FROM tender_vectors WHERE tender_id = $1`, tenderID)
	return err
}
