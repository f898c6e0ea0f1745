package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teddycheru/tenderlens/modules/tenders/model"
	"github.com/teddycheru/tenderlens/modules/tenders/ports"
)

// TenderRepository implements ports.TenderRepository
type TenderRepository struct {
	pool *pgxpool.Pool
}

// NewTenderRepository creates a new tender repository
func NewTenderRepository(pool *pgxpool.Pool) *TenderRepository {
	return &TenderRepository{pool: pool}
}

const selectColumns = `
	id, source_url, title, description, clean_description, summary, highlights,
	category, region, budget_min, budget_max, currency, language, deadline,
	status, published_at, extracted_data, embedding_updated_at,
	view_count, save_count, apply_count, dismiss_count, popularity_score,
	created_at, updated_at
`

// Create creates a new tender
func (r *TenderRepository) Create(ctx context.Context, tender *model.Tender) error {
	query := `
		INSERT INTO tenders (
			id, source_url, title, description, clean_description, summary, highlights,
			category, region, budget_min, budget_max, currency, language, deadline,
			status, published_at, extracted_data, view_count, save_count,
			apply_count, dismiss_count, popularity_score, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24
		)
	`

	tender.ID = uuid.New().String()
	if tender.Status == "" {
		tender.Status = model.StatusPublished
	}
	if tender.Currency == "" {
		tender.Currency = "ETB"
	}
	now := time.Now().UTC()
	tender.CreatedAt = now
	tender.UpdatedAt = now

	extracted, err := json.Marshal(tender.Extracted)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		tender.ID,
		tender.SourceURL,
		tender.Title,
		tender.Description,
		tender.CleanDescription,
		tender.Summary,
		tender.Highlights,
		tender.Category,
		tender.Region,
		tender.BudgetMin,
		tender.BudgetMax,
		tender.Currency,
		tender.Language,
		tender.Deadline,
		tender.Status,
		tender.PublishedAt,
		extracted,
		tender.ViewCount,
		tender.SaveCount,
		tender.ApplyCount,
		tender.DismissCount,
		tender.PopularityScore,
		tender.CreatedAt,
		tender.UpdatedAt,
	)
	if err != nil && strings.Contains(err.Error(), "duplicate key") {
		return model.ErrTenderAlreadyExists
	}
	return err
}

func scanTender(row pgx.Row) (*model.Tender, error) {
	t := &model.Tender{}
	var extracted []byte

	err := row.Scan(
		&t.ID,
		&t.SourceURL,
		&t.Title,
		&t.Description,
		&t.CleanDescription,
		&t.Summary,
		&t.Highlights,
		&t.Category,
		&t.Region,
		&t.BudgetMin,
		&t.BudgetMax,
		&t.Currency,
		&t.Language,
		&t.Deadline,
		&t.Status,
		&t.PublishedAt,
		&extracted,
		&t.EmbeddingUpdatedAt,
		&t.ViewCount,
		&t.SaveCount,
		&t.ApplyCount,
		&t.DismissCount,
		&t.PopularityScore,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(extracted) > 0 {
		if err := json.Unmarshal(extracted, &t.Extracted); err != nil {
			return nil, err
		}
	}

	return t, nil
}

// GetByID retrieves a tender by ID
func (r *TenderRepository) GetByID(ctx context.Context, tenderID string) (*model.Tender, error) {
	query := `SELECT ` + selectColumns + ` FROM tenders WHERE id = $1`

	tender, err := scanTender(r.pool.QueryRow(ctx, query, tenderID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrTenderNotFound
		}
		return nil, err
	}
	return tender, nil
}

// GetByIDs retrieves multiple tenders in one round trip, used by the
// Matcher to hydrate KNN candidate ids.
func (r *TenderRepository) GetByIDs(ctx context.Context, tenderIDs []string) ([]*model.Tender, error) {
	if len(tenderIDs) == 0 {
		return nil, nil
	}
	query := `SELECT ` + selectColumns + ` FROM tenders WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, tenderIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tenders []*model.Tender
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, err
		}
		tenders = append(tenders, tender)
	}
	return tenders, rows.Err()
}

// List retrieves tenders with pagination and rule-predicate filtering
func (r *TenderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*model.TenderDTO, int, error) {
	status := filter.Status
	if status == "" {
		status = model.StatusPublished
	}

	where := []string{"($1 = 'all' OR status = $1)"}
	args := []interface{}{status}
	argN := 2

	if filter.DaysAhead > 0 {
		where = append(where, fmt.Sprintf("(deadline IS NULL OR deadline <= now() + ($%d || ' days')::interval)", argN))
		args = append(args, filter.DaysAhead)
		argN++
	}
	if len(filter.Sectors) > 0 {
		where = append(where, fmt.Sprintf("category = ANY($%d)", argN))
		args = append(args, filter.Sectors)
		argN++
	}
	if len(filter.Regions) > 0 {
		where = append(where, fmt.Sprintf("region = ANY($%d)", argN))
		args = append(args, filter.Regions)
		argN++
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := `SELECT COUNT(*) FROM tenders WHERE ` + whereClause
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 20
	}
	query := `SELECT ` + selectColumns + ` FROM tenders WHERE ` + whereClause +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argN, argN+1)
	args = append(args, limit, filter.Offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var tenders []*model.TenderDTO
	for rows.Next() {
		tender, err := scanTender(rows)
		if err != nil {
			return nil, 0, err
		}
		tenders = append(tenders, tender.ToDTO())
	}

	return tenders, total, rows.Err()
}

// Update updates a tender's editable fields
func (r *TenderRepository) Update(ctx context.Context, tender *model.Tender) error {
	query := `
		UPDATE tenders
		SET title = $2, description = $3, clean_description = $4, summary = $5,
			highlights = $6, category = $7, region = $8, budget_min = $9,
			budget_max = $10, currency = $11, language = $12, deadline = $13,
			status = $14, published_at = $15, extracted_data = $16, updated_at = $17
		WHERE id = $1
	`

	extracted, err := json.Marshal(tender.Extracted)
	if err != nil {
		return err
	}
	tender.UpdatedAt = time.Now().UTC()

	result, err := r.pool.Exec(ctx, query,
		tender.ID,
		tender.Title,
		tender.Description,
		tender.CleanDescription,
		tender.Summary,
		tender.Highlights,
		tender.Category,
		tender.Region,
		tender.BudgetMin,
		tender.BudgetMax,
		tender.Currency,
		tender.Language,
		tender.Deadline,
		tender.Status,
		tender.PublishedAt,
		extracted,
		tender.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrTenderNotFound
	}
	return nil
}

// Delete deletes a tender
func (r *TenderRepository) Delete(ctx context.Context, tenderID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM tenders WHERE id = $1`, tenderID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrTenderNotFound
	}
	return nil
}

// IncrementPopularity bumps the per-kind counter and the scalar
// popularity score by weight, floored at 0.
func (r *TenderRepository) IncrementPopularity(ctx context.Context, tenderID, interactionType string, weight float64) error {
	column := ""
	switch interactionType {
	case "view":
		column = "view_count"
	case "save":
		column = "save_count"
	case "apply":
		column = "apply_count"
	case "dismiss":
		column = "dismiss_count"
	default:
		column = "view_count"
	}

	query := fmt.Sprintf(`
		UPDATE tenders
		SET %s = %s + 1,
			popularity_score = GREATEST(0, popularity_score + $2),
			updated_at = $3
		WHERE id = $1
	`, column, column)

	result, err := r.pool.Exec(ctx, query, tenderID, weight, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrTenderNotFound
	}
	return nil
}

// PopularityPercentile returns the rolling percentile popularity score
// over published tenders.
func (r *TenderRepository) PopularityPercentile(ctx context.Context, percentile float64) (float64, error) {
	query := `
		SELECT COALESCE(percentile_cont($1) WITHIN GROUP (ORDER BY popularity_score), 0)
		FROM tenders WHERE status = 'published'
	`
	var value float64
	err := r.pool.QueryRow(ctx, query, percentile).Scan(&value)
	return value, err
}

// SetEmbeddingUpdatedAt stamps the last successful embed time
func (r *TenderRepository) SetEmbeddingUpdatedAt(ctx context.Context, tenderID string, at time.Time) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE tenders SET embedding_updated_at = $2, updated_at = $2 WHERE id = $1`,
		tenderID, at,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrTenderNotFound
	}
	return nil
}
