package model

// ReasonTag identifies which scoring dimension produced a MatchReason.
type ReasonTag string

const (
	ReasonSemanticMatch      ReasonTag = "semantic_match"
	ReasonSectorMatch        ReasonTag = "sector_match"
	ReasonSubsectorMatch     ReasonTag = "subsector_match"
	ReasonKeywordMatch       ReasonTag = "keyword_match"
	ReasonRegionMatch        ReasonTag = "region_match"
	ReasonBudgetMatch        ReasonTag = "budget_match"
	ReasonUrgency            ReasonTag = "urgency"
	ReasonCertificationMatch ReasonTag = "certification_match"
	ReasonLanguageMatch      ReasonTag = "language_match"
	ReasonDeadlineMatch      ReasonTag = "deadline_match"
	ReasonPopularityBoost    ReasonTag = "popularity_boost"
)

// MatchReason is an ephemeral explanation of one scoring dimension's
// contribution to a recommendation's match_score. It is produced fresh
// on every response and never persisted.
type MatchReason struct {
	Tag           ReasonTag `json:"tag"`
	CategoryLabel string    `json:"category_label"`
	Reason        string    `json:"reason"`
	Weight        int       `json:"weight"`
}

// Dimension names the scoring dimensions a profile's scoring_weights map
// and the default-share table key on.
type Dimension string

const (
	DimensionCategory      Dimension = "category"
	DimensionSubSector     Dimension = "sub_sector"
	DimensionKeyword       Dimension = "keyword"
	DimensionRegion        Dimension = "region"
	DimensionBudget        Dimension = "budget"
	DimensionCertification Dimension = "certification"
	DimensionLanguage      Dimension = "language"
	DimensionDeadline      Dimension = "deadline"
	DimensionUrgency       Dimension = "urgency"
	DimensionPopularity    Dimension = "popularity"
	DimensionSemantic      Dimension = "semantic"
)

// DefaultShares holds the default weight share per dimension, used when
// a profile has no scoring_weights override. The eleven shares sum to
// 100.
var DefaultShares = map[Dimension]float64{
	DimensionCategory:      20,
	DimensionSubSector:     10,
	DimensionKeyword:       15,
	DimensionRegion:        10,
	DimensionBudget:        10,
	DimensionCertification: 5,
	DimensionLanguage:      5,
	DimensionDeadline:      5,
	DimensionUrgency:       5,
	DimensionPopularity:    5,
	DimensionSemantic:      10,
}

// DimensionOrder is the fixed evaluation/explanation order dimensions
// are scored in; used to produce deterministic MatchReason ordering
// before the final contribution-descending sort.
var DimensionOrder = []Dimension{
	DimensionCategory,
	DimensionSubSector,
	DimensionKeyword,
	DimensionRegion,
	DimensionBudget,
	DimensionCertification,
	DimensionLanguage,
	DimensionDeadline,
	DimensionUrgency,
	DimensionPopularity,
	DimensionSemantic,
}
