package repository

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/teddycheru/tenderlens/modules/profiles/model"
)

// ProfileRepository implements ports.ProfileRepository
type ProfileRepository struct {
	pool *pgxpool.Pool
}

// NewProfileRepository creates a new profile repository
func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

// Create creates a new company profile
func (r *ProfileRepository) Create(ctx context.Context, profile *model.CompanyProfile) error {
	query := `
		INSERT INTO company_tender_profiles (
			id, account_id, primary_sector, active_sectors, sub_sectors,
			preferred_regions, keywords, company_size, years_in_operation,
			certifications, budget_min, budget_max, budget_currency,
			min_match_threshold, scoring_weights, discovered_interests,
			preferred_sources, preferred_languages, min_deadline_days,
			embedding_dirty, interaction_count, interaction_count_since_last_embed,
			completion_percentage, tier1_complete, tier2_complete, onboarding_step,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13,
			$14, $15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25, $26, $27, $28
		)
	`

	profile.ID = uuid.New().String()
	weights, err := json.Marshal(profile.ScoringWeights)
	if err != nil {
		return err
	}

	_, err = r.pool.Exec(ctx, query,
		profile.ID,
		profile.AccountID,
		profile.PrimarySector,
		profile.ActiveSectors,
		profile.SubSectors,
		profile.PreferredRegions,
		profile.Keywords,
		profile.CompanySize,
		profile.YearsInOperation,
		profile.Certifications,
		profile.BudgetMin,
		profile.BudgetMax,
		profile.BudgetCurrency,
		profile.MinMatchThreshold,
		weights,
		profile.DiscoveredInterests,
		profile.PreferredSources,
		profile.PreferredLanguages,
		profile.MinDeadlineDays,
		profile.EmbeddingDirty,
		profile.InteractionCount,
		profile.InteractionCountSinceLastEmbed,
		profile.CompletionPercentage,
		profile.Tier1Complete,
		profile.Tier2Complete,
		profile.OnboardingStep,
		profile.CreatedAt,
		profile.UpdatedAt,
	)
	return err
}

const selectColumns = `
	id, account_id, primary_sector, active_sectors, sub_sectors,
	preferred_regions, keywords, company_size, years_in_operation,
	certifications, budget_min, budget_max, budget_currency,
	min_match_threshold, scoring_weights, discovered_interests,
	preferred_sources, preferred_languages, min_deadline_days,
	embedding_updated_at, embedding_dirty, interaction_count,
	interaction_count_since_last_embed, completion_percentage,
	tier1_complete, tier2_complete, onboarding_step, created_at, updated_at
`

func (r *ProfileRepository) scanProfile(row pgx.Row) (*model.CompanyProfile, error) {
	p := &model.CompanyProfile{}
	var weights []byte

	err := row.Scan(
		&p.ID,
		&p.AccountID,
		&p.PrimarySector,
		&p.ActiveSectors,
		&p.SubSectors,
		&p.PreferredRegions,
		&p.Keywords,
		&p.CompanySize,
		&p.YearsInOperation,
		&p.Certifications,
		&p.BudgetMin,
		&p.BudgetMax,
		&p.BudgetCurrency,
		&p.MinMatchThreshold,
		&weights,
		&p.DiscoveredInterests,
		&p.PreferredSources,
		&p.PreferredLanguages,
		&p.MinDeadlineDays,
		&p.EmbeddingUpdatedAt,
		&p.EmbeddingDirty,
		&p.InteractionCount,
		&p.InteractionCountSinceLastEmbed,
		&p.CompletionPercentage,
		&p.Tier1Complete,
		&p.Tier2Complete,
		&p.OnboardingStep,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(weights) > 0 {
		if err := json.Unmarshal(weights, &p.ScoringWeights); err != nil {
			return nil, err
		}
	}

	return p, nil
}

// GetByID retrieves a profile by ID
func (r *ProfileRepository) GetByID(ctx context.Context, profileID string) (*model.CompanyProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM company_tender_profiles WHERE id = $1`

	profile, err := r.scanProfile(r.pool.QueryRow(ctx, query, profileID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// GetByAccountID retrieves the profile owned by an account
func (r *ProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*model.CompanyProfile, error) {
	query := `SELECT ` + selectColumns + ` FROM company_tender_profiles WHERE account_id = $1`

	profile, err := r.scanProfile(r.pool.QueryRow(ctx, query, accountID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, err
	}
	return profile, nil
}

// Update updates a profile's editable fields
func (r *ProfileRepository) Update(ctx context.Context, profile *model.CompanyProfile) error {
	query := `
		UPDATE company_tender_profiles
		SET primary_sector = $2, active_sectors = $3, sub_sectors = $4,
			preferred_regions = $5, keywords = $6, company_size = $7,
			years_in_operation = $8, certifications = $9, budget_min = $10,
			budget_max = $11, budget_currency = $12, min_match_threshold = $13,
			scoring_weights = $14, discovered_interests = $15,
			preferred_sources = $16, preferred_languages = $17, min_deadline_days = $18,
			completion_percentage = $19, tier1_complete = $20,
			tier2_complete = $21, onboarding_step = $22, updated_at = $23
		WHERE id = $1
	`

	weights, err := json.Marshal(profile.ScoringWeights)
	if err != nil {
		return err
	}
	profile.UpdatedAt = time.Now().UTC()

	result, err := r.pool.Exec(ctx, query,
		profile.ID,
		profile.PrimarySector,
		profile.ActiveSectors,
		profile.SubSectors,
		profile.PreferredRegions,
		profile.Keywords,
		profile.CompanySize,
		profile.YearsInOperation,
		profile.Certifications,
		profile.BudgetMin,
		profile.BudgetMax,
		profile.BudgetCurrency,
		profile.MinMatchThreshold,
		weights,
		profile.DiscoveredInterests,
		profile.PreferredSources,
		profile.PreferredLanguages,
		profile.MinDeadlineDays,
		profile.CompletionPercentage,
		profile.Tier1Complete,
		profile.Tier2Complete,
		profile.OnboardingStep,
		profile.UpdatedAt,
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// Delete deletes a profile
func (r *ProfileRepository) Delete(ctx context.Context, profileID string) error {
	result, err := r.pool.Exec(ctx, `DELETE FROM company_tender_profiles WHERE id = $1`, profileID)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// MarkEmbeddingDirty sets the dirty flag without touching other fields
func (r *ProfileRepository) MarkEmbeddingDirty(ctx context.Context, profileID string) error {
	result, err := r.pool.Exec(ctx,
		`UPDATE company_tender_profiles SET embedding_dirty = true, updated_at = $2 WHERE id = $1`,
		profileID, time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// ClearEmbeddingDirty records a successful re-embed
func (r *ProfileRepository) ClearEmbeddingDirty(ctx context.Context, profileID string, embeddedAt time.Time) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE company_tender_profiles
		SET embedding_dirty = false,
			embedding_updated_at = $2,
			interaction_count_since_last_embed = 0,
			updated_at = $2
		WHERE id = $1
	`, profileID, embeddedAt)
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}

// IncrementInteractionCounters bumps the lifetime and since-last-embed counters
func (r *ProfileRepository) IncrementInteractionCounters(ctx context.Context, profileID string) error {
	result, err := r.pool.Exec(ctx, `
		UPDATE company_tender_profiles
		SET interaction_count = interaction_count + 1,
			interaction_count_since_last_embed = interaction_count_since_last_embed + 1,
			updated_at = $2
		WHERE id = $1
	`, profileID, time.Now().UTC())
	if err != nil {
		return err
	}
	if result.RowsAffected() == 0 {
		return model.ErrProfileNotFound
	}
	return nil
}
