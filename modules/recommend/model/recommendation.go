package model

import (
	"time"

	scoringmodel "github.com/teddycheru/tenderlens/modules/scoring/model"
	tendermodel "github.com/teddycheru/tenderlens/modules/tenders/model"
)

// Filters narrows a recommendation request. Zero values are replaced
// with their documented defaults by the service.
type Filters struct {
	Limit     int
	MinScore  float64
	DaysAhead int
	Sectors   []string
	Regions   []string
}

const (
	DefaultLimit     = 20
	MaxLimit         = 100
	DefaultMinScore  = 0
	DefaultDaysAhead = 7
	MinDaysAhead     = 1
	MaxDaysAhead     = 90
)

// Normalize clamps Filters to their documented bounds, applying
// defaults for zero values.
func (f Filters) Normalize() Filters {
	if f.Limit <= 0 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	if f.MinScore < 0 {
		f.MinScore = DefaultMinScore
	}
	if f.MinScore > 100 {
		f.MinScore = 100
	}
	if f.DaysAhead <= 0 {
		f.DaysAhead = DefaultDaysAhead
	}
	if f.DaysAhead < MinDaysAhead {
		f.DaysAhead = MinDaysAhead
	}
	if f.DaysAhead > MaxDaysAhead {
		f.DaysAhead = MaxDaysAhead
	}
	return f
}

// RecommendationItem is one ranked result row.
type RecommendationItem struct {
	Tender             *tendermodel.TenderDTO     `json:"tender"`
	MatchScore         int                        `json:"match_score"`
	MatchReasons       []scoringmodel.MatchReason `json:"match_reasons"`
	SemanticSimilarity float64                    `json:"semantic_similarity"`
	DaysUntilDeadline  *int                       `json:"days_until_deadline"`
}

// RecommendationResponse is the Recommend operation's full result.
type RecommendationResponse struct {
	Items               []RecommendationItem `json:"items"`
	Total               int                  `json:"total"`
	ProfileCompletion   float64              `json:"profile_completion"`
	FiltersApplied      Filters              `json:"filters_applied"`
	GeneratedAt         time.Time            `json:"generated_at"`
	SemanticUnavailable bool                 `json:"semantic_unavailable,omitempty"`
}

// SimilarItem is one row of the Similar-Tender Service's response.
type SimilarItem struct {
	Tender          *tendermodel.TenderDTO `json:"tender"`
	SimilarityScore int                    `json:"similarity_score"`
	CommonKeywords  []string               `json:"common_keywords"`
}

// SimilarResponse is the Similar operation's full result.
type SimilarResponse struct {
	Ref   *tendermodel.TenderDTO `json:"ref"`
	Items []SimilarItem          `json:"items"`
}
