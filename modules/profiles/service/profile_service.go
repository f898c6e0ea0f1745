package service

import (
	"context"
	"time"

	"github.com/teddycheru/tenderlens/modules/profiles/model"
	"github.com/teddycheru/tenderlens/modules/profiles/ports"
)

// ProfileService handles company-profile business logic
type ProfileService struct {
	repo     ports.ProfileRepository
	embedder ports.Embedder
	vectors  ports.ProfileVectorStore
}

// NewProfileService creates a new profile service
func NewProfileService(repo ports.ProfileRepository, embedder ports.Embedder, vectors ports.ProfileVectorStore) *ProfileService {
	return &ProfileService{repo: repo, embedder: embedder, vectors: vectors}
}

// Embed re-embeds a profile's composition text and clears the dirty
// flag on success. A cancelled or failed embed leaves the previous
// vector and the dirty flag intact.
func (s *ProfileService) Embed(ctx context.Context, profileID string) error {
	profile, err := s.repo.GetByID(ctx, profileID)
	if err != nil {
		return err
	}

	vector, err := s.embedder.Embed(ctx, profile.CompositionText())
	if err != nil {
		return err
	}

	if err := s.vectors.UpsertProfileVector(ctx, profileID, vector); err != nil {
		return err
	}

	return s.repo.ClearEmbeddingDirty(ctx, profileID, time.Now().UTC())
}

// Create onboards a new company profile at onboarding step 1.
func (s *ProfileService) Create(ctx context.Context, accountID string, req *model.CreateProfileRequest) (*model.CompanyProfileDTO, error) {
	if existing, err := s.repo.GetByAccountID(ctx, accountID); err == nil && existing != nil {
		return nil, model.ErrProfileAlreadyExists
	}

	if len(req.ActiveSectors) < 1 || len(req.ActiveSectors) > 5 {
		return nil, model.ErrInvalidTier1Fields
	}
	if len(req.PreferredRegions) < 1 || len(req.PreferredRegions) > 5 {
		return nil, model.ErrInvalidTier1Fields
	}
	if len(req.Keywords) < 3 || len(req.Keywords) > 10 {
		return nil, model.ErrInvalidTier1Fields
	}

	profile := model.NewCompanyProfile(accountID)
	profile.PrimarySector = req.PrimarySector
	profile.ActiveSectors = req.ActiveSectors
	profile.SubSectors = req.SubSectors
	profile.PreferredRegions = req.PreferredRegions
	profile.Keywords = req.Keywords
	profile.OnboardingStep = 2
	profile.RecomputeCompletion()

	if err := s.repo.Create(ctx, profile); err != nil {
		return nil, err
	}
	return profile.ToDTO(), nil
}

// GetByAccountID retrieves the profile owned by an account
func (s *ProfileService) GetByAccountID(ctx context.Context, accountID string) (*model.CompanyProfileDTO, error) {
	profile, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}
	return profile.ToDTO(), nil
}

// Update applies a partial update to a profile (onboarding step 2 or later edits)
func (s *ProfileService) Update(ctx context.Context, accountID string, req *model.UpdateProfileRequest) (*model.CompanyProfileDTO, error) {
	profile, err := s.repo.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, err
	}

	tier1Changed := false

	if req.PrimarySector != nil {
		profile.PrimarySector = *req.PrimarySector
		tier1Changed = true
	}
	if req.ActiveSectors != nil {
		if len(req.ActiveSectors) < 1 || len(req.ActiveSectors) > 5 {
			return nil, model.ErrInvalidTier1Fields
		}
		profile.ActiveSectors = req.ActiveSectors
		tier1Changed = true
	}
	if req.SubSectors != nil {
		profile.SubSectors = req.SubSectors
		tier1Changed = true
	}
	if req.PreferredRegions != nil {
		if len(req.PreferredRegions) < 1 || len(req.PreferredRegions) > 5 {
			return nil, model.ErrInvalidTier1Fields
		}
		profile.PreferredRegions = req.PreferredRegions
		tier1Changed = true
	}
	if req.Keywords != nil {
		if len(req.Keywords) < 3 || len(req.Keywords) > 10 {
			return nil, model.ErrInvalidTier1Fields
		}
		profile.Keywords = req.Keywords
		tier1Changed = true
	}
	if req.CompanySize != nil {
		profile.CompanySize = req.CompanySize
	}
	if req.YearsInOperation != nil {
		profile.YearsInOperation = req.YearsInOperation
	}
	if req.Certifications != nil {
		profile.Certifications = req.Certifications
	}
	if req.BudgetMin != nil {
		profile.BudgetMin = req.BudgetMin
	}
	if req.BudgetMax != nil {
		profile.BudgetMax = req.BudgetMax
	}
	if profile.BudgetMin != nil && profile.BudgetMax != nil && *profile.BudgetMin > *profile.BudgetMax {
		return nil, model.ErrInvalidBudgetRange
	}
	if req.BudgetCurrency != nil {
		profile.BudgetCurrency = *req.BudgetCurrency
	}
	if req.MinMatchThreshold != nil {
		profile.MinMatchThreshold = *req.MinMatchThreshold
	}
	if req.ScoringWeights != nil {
		profile.ScoringWeights = req.ScoringWeights
	}
	if req.PreferredSources != nil {
		profile.PreferredSources = req.PreferredSources
	}
	if req.PreferredLanguages != nil {
		profile.PreferredLanguages = req.PreferredLanguages
	}
	if req.MinDeadlineDays != nil {
		profile.MinDeadlineDays = *req.MinDeadlineDays
	}

	profile.RecomputeCompletion()
	if profile.Tier1Complete && profile.OnboardingStep < 3 {
		profile.OnboardingStep = 3
	}

	if err := s.repo.Update(ctx, profile); err != nil {
		return nil, err
	}

	if tier1Changed {
		if err := s.repo.MarkEmbeddingDirty(ctx, profile.ID); err != nil {
			return nil, err
		}
	}

	return profile.ToDTO(), nil
}
