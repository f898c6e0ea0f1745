package model

import (
	"strings"
	"time"
)

// CompanyProfile is the matching-relevant state for one company: the
// tier-1/tier-2 preference fields the Rule Scorer reads, the matching
// config the Matcher applies, and the embedding/counter state the
// Feedback Processor mutates.
type CompanyProfile struct {
	ID        string
	AccountID string

	// Tier-1 (required to leave the profile-incomplete state)
	PrimarySector    string
	ActiveSectors    []string
	SubSectors       []string
	PreferredRegions []string
	Keywords         []string

	// Tier-2 (optional)
	CompanySize      *string
	YearsInOperation *string
	Certifications   []string
	BudgetMin        *float64
	BudgetMax        *float64
	BudgetCurrency   string

	// Matching config
	MinMatchThreshold float64
	ScoringWeights    map[string]float64

	// Tier-3 (learned)
	DiscoveredInterests []string
	PreferredSources    []string
	PreferredLanguages  []string
	MinDeadlineDays     int

	// Embedding state, exclusively owned by this profile
	EmbeddingUpdatedAt             *time.Time
	EmbeddingDirty                 bool
	InteractionCount               int
	InteractionCountSinceLastEmbed int

	// Derived completion state
	CompletionPercentage float64
	Tier1Complete        bool
	Tier2Complete        bool
	OnboardingStep       int

	CreatedAt time.Time
	UpdatedAt time.Time
}

const defaultBudgetCurrency = "ETB"
const defaultMinDeadlineDays = 1

// NewCompanyProfile creates a profile at onboarding step 1.
func NewCompanyProfile(accountID string) *CompanyProfile {
	now := time.Now().UTC()
	return &CompanyProfile{
		AccountID:          accountID,
		BudgetCurrency:     defaultBudgetCurrency,
		MinMatchThreshold:  0,
		ScoringWeights:     map[string]float64{},
		PreferredLanguages: []string{"english"},
		MinDeadlineDays:    defaultMinDeadlineDays,
		OnboardingStep:     1,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// RecomputeCompletion derives tier1_complete/tier2_complete/completion_percentage
// from the currently-set fields.
func (p *CompanyProfile) RecomputeCompletion() {
	tier1Fields := []bool{
		p.PrimarySector != "",
		len(p.ActiveSectors) >= 1 && len(p.ActiveSectors) <= 5,
		len(p.PreferredRegions) >= 1 && len(p.PreferredRegions) <= 5,
		len(p.Keywords) >= 3 && len(p.Keywords) <= 10,
	}
	tier1Filled := 0
	for _, ok := range tier1Fields {
		if ok {
			tier1Filled++
		}
	}
	p.Tier1Complete = tier1Filled == len(tier1Fields)

	tier2Fields := []bool{
		p.CompanySize != nil,
		p.YearsInOperation != nil,
		len(p.Certifications) > 0,
		p.BudgetMin != nil && p.BudgetMax != nil,
	}
	tier2Filled := 0
	for _, ok := range tier2Fields {
		if ok {
			tier2Filled++
		}
	}
	p.Tier2Complete = tier2Filled == len(tier2Fields)

	total := len(tier1Fields) + len(tier2Fields)
	p.CompletionPercentage = float64(tier1Filled+tier2Filled) / float64(total) * 100
}

// CompositionText builds the deterministic embedding-input text. Each
// list is rendered in the order given, joined with the tokens verbatim
// (no sorting).
func (p *CompanyProfile) CompositionText() string {
	parts := []string{p.PrimarySector}
	parts = append(parts, p.ActiveSectors...)
	parts = append(parts, p.SubSectors...)
	parts = append(parts, p.Keywords...)
	parts = append(parts, p.PreferredRegions...)
	parts = append(parts, p.Certifications...)
	parts = append(parts, p.DiscoveredInterests...)

	nonEmpty := make([]string, 0, len(parts))
	for _, part := range parts {
		if part != "" {
			nonEmpty = append(nonEmpty, part)
		}
	}
	return strings.Join(nonEmpty, " ")
}

// CompanyProfileDTO is the external representation of a profile.
type CompanyProfileDTO struct {
	ID                   string             `json:"id"`
	PrimarySector        string             `json:"primary_sector"`
	ActiveSectors        []string           `json:"active_sectors"`
	SubSectors           []string           `json:"sub_sectors"`
	PreferredRegions     []string           `json:"preferred_regions"`
	Keywords             []string           `json:"keywords"`
	CompanySize          *string            `json:"company_size,omitempty"`
	YearsInOperation     *string            `json:"years_in_operation,omitempty"`
	Certifications       []string           `json:"certifications"`
	BudgetMin            *float64           `json:"budget_min,omitempty"`
	BudgetMax            *float64           `json:"budget_max,omitempty"`
	BudgetCurrency       string             `json:"budget_currency"`
	MinMatchThreshold    float64            `json:"min_match_threshold"`
	ScoringWeights       map[string]float64 `json:"scoring_weights"`
	DiscoveredInterests  []string           `json:"discovered_interests"`
	PreferredSources     []string           `json:"preferred_sources"`
	PreferredLanguages   []string           `json:"preferred_languages"`
	MinDeadlineDays      int                `json:"min_deadline_days"`
	CompletionPercentage float64            `json:"completion_percentage"`
	Tier1Complete        bool               `json:"tier1_complete"`
	Tier2Complete        bool               `json:"tier2_complete"`
	OnboardingStep       int                `json:"onboarding_step"`
	EmbeddingUpdatedAt   *time.Time         `json:"embedding_updated_at,omitempty"`
	CreatedAt            time.Time          `json:"created_at"`
	UpdatedAt            time.Time          `json:"updated_at"`
}

// ToDTO converts CompanyProfile to CompanyProfileDTO
func (p *CompanyProfile) ToDTO() *CompanyProfileDTO {
	return &CompanyProfileDTO{
		ID:                   p.ID,
		PrimarySector:        p.PrimarySector,
		ActiveSectors:        p.ActiveSectors,
		SubSectors:           p.SubSectors,
		PreferredRegions:     p.PreferredRegions,
		Keywords:             p.Keywords,
		CompanySize:          p.CompanySize,
		YearsInOperation:     p.YearsInOperation,
		Certifications:       p.Certifications,
		BudgetMin:            p.BudgetMin,
		BudgetMax:            p.BudgetMax,
		BudgetCurrency:       p.BudgetCurrency,
		MinMatchThreshold:    p.MinMatchThreshold,
		ScoringWeights:       p.ScoringWeights,
		DiscoveredInterests:  p.DiscoveredInterests,
		PreferredSources:     p.PreferredSources,
		PreferredLanguages:   p.PreferredLanguages,
		MinDeadlineDays:      p.MinDeadlineDays,
		CompletionPercentage: p.CompletionPercentage,
		Tier1Complete:        p.Tier1Complete,
		Tier2Complete:        p.Tier2Complete,
		OnboardingStep:       p.OnboardingStep,
		EmbeddingUpdatedAt:   p.EmbeddingUpdatedAt,
		CreatedAt:            p.CreatedAt,
		UpdatedAt:            p.UpdatedAt,
	}
}

// CreateProfileRequest is the onboarding-step-1 payload.
type CreateProfileRequest struct {
	PrimarySector    string   `json:"primary_sector" binding:"required"`
	ActiveSectors    []string `json:"active_sectors" binding:"required,min=1,max=5"`
	SubSectors       []string `json:"sub_sectors"`
	PreferredRegions []string `json:"preferred_regions" binding:"required,min=1,max=5"`
	Keywords         []string `json:"keywords" binding:"required,min=3,max=10"`
}

// UpdateProfileRequest is the partial-update payload for `PUT /company-profile`.
type UpdateProfileRequest struct {
	PrimarySector     *string            `json:"primary_sector"`
	ActiveSectors     []string           `json:"active_sectors"`
	SubSectors        []string           `json:"sub_sectors"`
	PreferredRegions  []string           `json:"preferred_regions"`
	Keywords          []string           `json:"keywords"`
	CompanySize       *string            `json:"company_size"`
	YearsInOperation  *string            `json:"years_in_operation"`
	Certifications    []string           `json:"certifications"`
	BudgetMin         *float64           `json:"budget_min"`
	BudgetMax         *float64           `json:"budget_max"`
	BudgetCurrency    *string            `json:"budget_currency"`
	MinMatchThreshold *float64           `json:"min_match_threshold"`
	ScoringWeights    map[string]float64 `json:"scoring_weights"`
	PreferredSources  []string           `json:"preferred_sources"`
	PreferredLanguages []string          `json:"preferred_languages"`
	MinDeadlineDays   *int               `json:"min_deadline_days"`
}
