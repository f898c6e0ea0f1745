// Package service implements the rule-based scorer: bounded
// per-dimension structured-match sub-scores and their human-readable
// explanations. It is pure computation over already-loaded
// profile/tender structs, with no repository, I/O, or port.
package service

import (
	"fmt"
	"math"
	"sort"
	"strings"

	profilemodel "github.com/teddycheru/tenderlens/modules/profiles/model"
	scoringmodel "github.com/teddycheru/tenderlens/modules/scoring/model"
	tendermodel "github.com/teddycheru/tenderlens/modules/tenders/model"
)

// knownCertificationKeywords maps a certification name to the
// description substrings that indicate a tender requires it. This list
// is intentionally small and extended as real tender text surfaces new
// phrasings.
var knownCertificationKeywords = map[string][]string{
	"iso 9001":         {"iso 9001", "iso9001"},
	"iso 14001":        {"iso 14001", "iso14001"},
	"ohsas 18001":      {"ohsas 18001", "ohsas18001"},
	"tax clearance":    {"tax clearance certificate", "tax clearance"},
	"vat registration": {"vat registration", "vat certificate"},
	"trade license":    {"trade license", "business license"},
}

// RuleScorer computes the structured-match sub-scores for a
// (profile, tender) pair: one fraction per dimension, weighted and
// summed, together with the semantic and popularity inputs, into a
// recommendation's match_score.
type RuleScorer struct {
	defaultShares map[scoringmodel.Dimension]float64
}

// NewRuleScorer creates a RuleScorer. defaultWeights seeds the
// per-dimension default share used when a profile carries no
// scoring_weights override for that dimension; a dimension missing from
// defaultWeights, or a nil/empty map, falls back to
// scoringmodel.DefaultShares.
func NewRuleScorer(defaultWeights map[string]float64) *RuleScorer {
	shares := make(map[scoringmodel.Dimension]float64, len(scoringmodel.DefaultShares))
	for dim, share := range scoringmodel.DefaultShares {
		shares[dim] = share
	}
	for dim, share := range defaultWeights {
		if share >= 0 {
			shares[scoringmodel.Dimension(dim)] = share
		}
	}
	return &RuleScorer{defaultShares: shares}
}

// Result pairs an integer rule score with the MatchReasons produced.
// Score returns these two values directly and does not build a Result;
// Score itself includes the semantic and popularity contributions.
type Result struct {
	// RuleScore is a score in points out of the normalized 100.
	RuleScore int
	Reasons   []scoringmodel.MatchReason
}

// Score evaluates every dimension for one (profile, tender) pair.
// semanticSimilarity is the cosine similarity in [0,1] (0 if
// unavailable); popularityNorm is min(1, tender.popularity/P*),
// already normalized to [0,1].
//
// It returns the total match_score (clipped to [0,100]) and the
// MatchReasons for every dimension with a non-zero contribution,
// capped at 6 and sorted by contribution descending.
func (s *RuleScorer) Score(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender, semanticSimilarity, popularityNorm float64) (int, []scoringmodel.MatchReason) {
	weights := s.normalizedWeights(profile.ScoringWeights)

	fractions := map[scoringmodel.Dimension]float64{
		scoringmodel.DimensionCategory:      scoreCategory(profile, tender),
		scoringmodel.DimensionSubSector:     scoreSubSector(profile, tender),
		scoringmodel.DimensionKeyword:       scoreKeyword(profile, tender),
		scoringmodel.DimensionRegion:        scoreRegion(profile, tender),
		scoringmodel.DimensionBudget:        scoreBudget(profile, tender),
		scoringmodel.DimensionCertification: scoreCertification(profile, tender),
		scoringmodel.DimensionLanguage:      scoreLanguage(profile, tender),
		scoringmodel.DimensionDeadline:      scoreDeadline(profile, tender),
		scoringmodel.DimensionUrgency:       scoreUrgency(tender),
		scoringmodel.DimensionPopularity:    clamp01(popularityNorm),
		scoringmodel.DimensionSemantic:      clamp01(semanticSimilarity),
	}

	reasons := make([]scoringmodel.MatchReason, 0, len(scoringmodel.DimensionOrder))
	total := 0.0

	for _, dim := range scoringmodel.DimensionOrder {
		fraction := fractions[dim]
		points := weights[dim] * fraction
		total += points

		if points < 0.005 {
			continue
		}
		reasons = append(reasons, buildReason(dim, profile, tender, points))
	}

	sort.SliceStable(reasons, func(i, j int) bool {
		return reasons[i].Weight > reasons[j].Weight
	})
	if len(reasons) > 6 {
		reasons = reasons[:6]
	}

	matchScore := int(math.Round(total))
	if matchScore > 100 {
		matchScore = 100
	}
	if matchScore < 0 {
		matchScore = 0
	}
	return matchScore, reasons
}

// normalizedWeights resolves each dimension's effective point weight:
// the profile's override if present, else the scorer's default share;
// then renormalizes the full set so it sums to 100.
func (s *RuleScorer) normalizedWeights(overrides map[string]float64) map[scoringmodel.Dimension]float64 {
	raw := make(map[scoringmodel.Dimension]float64, len(scoringmodel.DimensionOrder))
	sum := 0.0
	for dim, share := range s.defaultShares {
		w := share
		if override, ok := overrides[string(dim)]; ok && override >= 0 {
			w = override
		}
		raw[dim] = w
		sum += w
	}
	if sum <= 0 {
		return raw
	}
	normalized := make(map[scoringmodel.Dimension]float64, len(raw))
	for dim, w := range raw {
		normalized[dim] = w / sum * 100
	}
	return normalized
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func containsFold(list []string, target string) bool {
	for _, v := range list {
		if strings.EqualFold(v, target) {
			return true
		}
	}
	return false
}

func scoreCategory(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if tender.Category == "" {
		return 0
	}
	if containsFold(profile.ActiveSectors, tender.Category) {
		return 1
	}
	if strings.EqualFold(profile.PrimarySector, tender.Category) {
		return 0.5
	}
	return 0
}

func scoreSubSector(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if len(profile.SubSectors) == 0 {
		return 0
	}
	haystack := strings.ToLower(tender.Title)
	if tender.CleanDescription != nil {
		haystack += " " + strings.ToLower(*tender.CleanDescription)
	} else {
		haystack += " " + strings.ToLower(tender.Description)
	}

	matched := 0
	for _, sub := range profile.SubSectors {
		if wordBoundaryContains(haystack, strings.ToLower(sub)) {
			matched++
		}
	}
	const capAt = 3
	if matched > capAt {
		matched = capAt
	}
	return float64(matched) / float64(capAt)
}

// wordBoundaryContains reports whether needle appears in haystack at a
// word boundary (not as a substring of a larger word).
func wordBoundaryContains(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	idx := 0
	for {
		pos := strings.Index(haystack[idx:], needle)
		if pos < 0 {
			return false
		}
		start := idx + pos
		end := start + len(needle)
		beforeOK := start == 0 || !isWordChar(rune(haystack[start-1]))
		afterOK := end == len(haystack) || !isWordChar(rune(haystack[end]))
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
		if idx >= len(haystack) {
			return false
		}
	}
}

func isWordChar(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '_'
}

func scoreKeyword(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if len(profile.Keywords) == 0 {
		return 0
	}
	title := strings.ToLower(tender.Title)
	description := strings.ToLower(tender.Description)
	if tender.CleanDescription != nil {
		description = strings.ToLower(*tender.CleanDescription)
	}
	highlights := strings.ToLower(strings.Join(tender.Highlights, " "))

	const maxPerKeyword = 4.5
	total := 0.0
	for _, kw := range profile.Keywords {
		k := strings.ToLower(kw)
		if k == "" {
			continue
		}
		if strings.Contains(title, k) {
			total += 2
		}
		if strings.Contains(highlights, k) {
			total += 1.5
		}
		if strings.Contains(description, k) {
			total += 1
		}
	}
	max := maxPerKeyword * float64(len(profile.Keywords))
	if max == 0 {
		return 0
	}
	return clamp01(total / max)
}

func scoreRegion(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if tender.Region == "" {
		return 0
	}
	if containsFold(profile.PreferredRegions, tender.Region) {
		return 1
	}
	if strings.EqualFold(tender.Region, "national") {
		return 0.5
	}
	return 0
}

func tenderBudgetAmount(tender *tendermodel.Tender) *float64 {
	if tender.BudgetMax != nil {
		return tender.BudgetMax
	}
	return tender.BudgetMin
}

func scoreBudget(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if profile.BudgetMin == nil || profile.BudgetMax == nil {
		return 0
	}
	amount := tenderBudgetAmount(tender)
	if amount == nil {
		return 0
	}
	min, max := *profile.BudgetMin, *profile.BudgetMax
	if *amount >= min && *amount <= max {
		return 1
	}
	band := (max - min) * 0.2
	if *amount >= min-band && *amount <= max+band {
		return 0.5
	}
	return 0
}

func scoreCertification(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	if len(profile.Certifications) == 0 {
		return 0
	}
	description := strings.ToLower(tender.Description)
	if tender.CleanDescription != nil {
		description = strings.ToLower(*tender.CleanDescription)
	}

	detected := map[string]bool{}
	for cert, keywords := range knownCertificationKeywords {
		for _, kw := range keywords {
			if strings.Contains(description, kw) {
				detected[cert] = true
				break
			}
		}
	}
	if len(detected) == 0 {
		return 0
	}

	matched := 0
	for _, held := range profile.Certifications {
		if detected[strings.ToLower(held)] {
			matched++
		}
	}
	return clamp01(float64(matched) / float64(len(detected)))
}

func scoreLanguage(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	preferred := profile.PreferredLanguages
	if len(preferred) == 0 {
		preferred = []string{"english"}
	}
	if tender.Language == "" {
		return 0
	}
	if containsFold(preferred, tender.Language) {
		return 1
	}
	return 0
}

func scoreDeadline(profile *profilemodel.CompanyProfile, tender *tendermodel.Tender) float64 {
	days := tender.DaysUntilDeadline()
	if days == nil {
		return 0
	}
	d := float64(*days)
	minDays := float64(profile.MinDeadlineDays)

	if d >= minDays && d <= 60 {
		return 1
	}
	if d < minDays {
		distance := minDays - d
		return math.Max(0, 1-distance/7.0)
	}
	distance := d - 60
	return math.Max(0, 1-distance/30.0)
}

func scoreUrgency(tender *tendermodel.Tender) float64 {
	days := tender.DaysUntilDeadline()
	if days == nil {
		return 0
	}
	if *days >= 1 && *days <= 7 {
		return 1
	}
	return 0
}

func buildReason(dim scoringmodel.Dimension, profile *profilemodel.CompanyProfile, tender *tendermodel.Tender, points float64) scoringmodel.MatchReason {
	weight := int(math.Round(points))
	switch dim {
	case scoringmodel.DimensionCategory:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonSectorMatch, CategoryLabel: tender.Category,
			Reason: fmt.Sprintf("Matches your active sector %q", tender.Category), Weight: weight,
		}
	case scoringmodel.DimensionSubSector:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonSubsectorMatch, CategoryLabel: tender.Category,
			Reason: "Mentions one of your sub-sectors", Weight: weight,
		}
	case scoringmodel.DimensionKeyword:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonKeywordMatch, CategoryLabel: tender.Category,
			Reason: "Contains keywords you track", Weight: weight,
		}
	case scoringmodel.DimensionRegion:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonRegionMatch, CategoryLabel: tender.Region,
			Reason: fmt.Sprintf("Located in %q, one of your preferred regions", tender.Region), Weight: weight,
		}
	case scoringmodel.DimensionBudget:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonBudgetMatch, CategoryLabel: tender.Currency,
			Reason: "Budget fits your configured range", Weight: weight,
		}
	case scoringmodel.DimensionCertification:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonCertificationMatch, CategoryLabel: "certification",
			Reason: "You hold a certification this tender requires", Weight: weight,
		}
	case scoringmodel.DimensionLanguage:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonLanguageMatch, CategoryLabel: tender.Language,
			Reason: fmt.Sprintf("Published in %q, a language you prefer", tender.Language), Weight: weight,
		}
	case scoringmodel.DimensionDeadline:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonDeadlineMatch, CategoryLabel: "deadline",
			Reason: "Deadline falls within your preferred window", Weight: weight,
		}
	case scoringmodel.DimensionUrgency:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonUrgency, CategoryLabel: "urgency",
			Reason: "Deadline is approaching soon", Weight: weight,
		}
	case scoringmodel.DimensionPopularity:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonPopularityBoost, CategoryLabel: "popularity",
			Reason: "Popular with other companies like yours", Weight: weight,
		}
	case scoringmodel.DimensionSemantic:
		return scoringmodel.MatchReason{
			Tag: scoringmodel.ReasonSemanticMatch, CategoryLabel: "semantic",
			Reason: "Strong semantic similarity to your profile", Weight: weight,
		}
	}
	return scoringmodel.MatchReason{Weight: weight}
}
