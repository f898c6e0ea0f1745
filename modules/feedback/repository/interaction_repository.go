package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/teddycheru/tenderlens/modules/feedback/model"
)

// InteractionRepository persists the append-only interaction log in
// Postgres, following modules/comments/repository's plain pgxpool style.
type InteractionRepository struct {
	pool *pgxpool.Pool
}

func NewInteractionRepository(pool *pgxpool.Pool) *InteractionRepository {
	return &InteractionRepository{pool: pool}
}

// Create inserts the interaction. ON CONFLICT DO NOTHING makes the write
// idempotent per (user_id, tender_id, interaction_type, dedup_bucket); a
// conflict means this call duplicates an already-accepted event and no
// RETURNING row comes back.
func (r *InteractionRepository) Create(ctx context.Context, i *model.Interaction) (bool, error) {
	i.ID = uuid.New().String()

	query := `
		INSERT INTO user_interactions (
			id, user_id, tender_id, interaction_type, interaction_weight,
			time_spent_seconds, match_score_at_time, feedback_reason,
			tender_category_snapshot, tender_region_snapshot,
			tender_budget_min_snapshot, tender_budget_max_snapshot,
			dedup_bucket
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		ON CONFLICT (user_id, tender_id, interaction_type, dedup_bucket) DO NOTHING
		RETURNING id, created_at
	`

	row := r.pool.QueryRow(ctx, query,
		i.ID, i.UserID, i.TenderID, string(i.Type), i.Weight,
		i.TimeSpentSeconds, i.MatchScoreAtTime, i.FeedbackReason,
		i.TenderCategorySnapshot, i.TenderRegionSnapshot,
		i.TenderBudgetMinSnapshot, i.TenderBudgetMaxSnapshot,
		i.DedupBucket,
	)

	var returnedID string
	if err := row.Scan(&returnedID, &i.CreatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	i.ID = returnedID
	return true, nil
}

func (r *InteractionRepository) Stats(ctx context.Context, userID string) (*model.InteractionStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT interaction_type, COUNT(*), COALESCE(AVG(time_spent_seconds), 0)
		FROM user_interactions
		WHERE user_id = $1
		GROUP BY interaction_type
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	var totalTimeWeighted, totalCount float64
	for rows.Next() {
		var kind string
		var count int
		var avgTime float64
		if err := rows.Scan(&kind, &count, &avgTime); err != nil {
			return nil, err
		}
		counts[kind] = count
		totalTimeWeighted += avgTime * float64(count)
		totalCount += float64(count)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	avg := 0.0
	if totalCount > 0 {
		avg = totalTimeWeighted / totalCount
	}

	return &model.InteractionStats{
		CountsByType:            counts,
		AverageTimeSpentSeconds: avg,
	}, nil
}

func (r *InteractionRepository) ListDismissedTenderIDs(ctx context.Context, userID string) ([]string, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT DISTINCT tender_id FROM user_interactions
		WHERE user_id = $1 AND interaction_type = 'dismiss'
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (r *InteractionRepository) CountPositiveByCategory(ctx context.Context, userID, category string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_interactions
		WHERE user_id = $1
		  AND interaction_type IN ('save', 'apply', 'rate_positive')
		  AND tender_category_snapshot = $2
	`, userID, category).Scan(&count)
	return count, err
}

func (r *InteractionRepository) CountDismissedByRegion(ctx context.Context, userID, region string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM user_interactions
		WHERE user_id = $1 AND interaction_type = 'dismiss' AND tender_region_snapshot = $2
	`, userID, region).Scan(&count)
	return count, err
}
