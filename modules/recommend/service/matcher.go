// Package service implements the Matcher: candidate generation,
// fusion of semantic/rule/popularity scores, thresholding, ranking,
// explanation, and the similar-tender lookup.
package service

import (
	"context"
	"errors"
	"math"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/teddycheru/tenderlens/modules/recommend/model"
	"github.com/teddycheru/tenderlens/modules/recommend/ports"
	profileports "github.com/teddycheru/tenderlens/modules/profiles/ports"
	scoringservice "github.com/teddycheru/tenderlens/modules/scoring/service"
	tendermodel "github.com/teddycheru/tenderlens/modules/tenders/model"
	tenderports "github.com/teddycheru/tenderlens/modules/tenders/ports"
)

// candidateTimeout bounds the vector-store/rule-candidate generation
// stage; on expiry the Matcher degrades to rule-based candidates
// instead of failing the whole request.
const candidateTimeout = 1500 * time.Millisecond

// Matcher implements Recommend and Similar over injected collaborators.
// It owns no storage of its own: every I/O port is declared in
// modules/recommend/ports or borrowed from the owning module's ports
// package, following the same collaborator-boundary pattern used
// throughout this codebase.
type Matcher struct {
	profiles     profileports.ProfileRepository
	profileVecs  profileports.ProfileVectorStore
	tenders      tenderports.TenderRepository
	vectors      ports.VectorStore
	interactions ports.InteractionRepository
	scorer       *scoringservice.RuleScorer
}

// NewMatcher creates a new Matcher. defaultScoringWeights seeds the
// RuleScorer's per-dimension default share table (see
// scoringservice.NewRuleScorer); pass nil to use the built-in defaults.
func NewMatcher(
	profiles profileports.ProfileRepository,
	profileVecs profileports.ProfileVectorStore,
	tenders tenderports.TenderRepository,
	vectors ports.VectorStore,
	interactions ports.InteractionRepository,
	defaultScoringWeights map[string]float64,
) *Matcher {
	return &Matcher{
		profiles:     profiles,
		profileVecs:  profileVecs,
		tenders:      tenders,
		vectors:      vectors,
		interactions: interactions,
		scorer:       scoringservice.NewRuleScorer(defaultScoringWeights),
	}
}

// Recommend runs the LOAD_PROFILE, BUILD_FILTERS, VECTOR_CANDIDATES
// (fallback RULE_CANDIDATES), SCORE, THRESHOLD, RANK, EXPLAIN, RESPOND
// pipeline.
func (m *Matcher) Recommend(ctx context.Context, accountID string, filters model.Filters) (*model.RecommendationResponse, error) {
	filters = filters.Normalize()
	generatedAt := time.Now().UTC()

	// LOAD_PROFILE
	profile, err := m.profiles.GetByAccountID(ctx, accountID)
	if err != nil {
		return nil, model.ErrProfileNotFound
	}
	if !profile.Tier1Complete {
		return nil, model.ErrProfileIncomplete
	}

	// BUILD_FILTERS
	maxDeadline := generatedAt.Add(time.Duration(filters.DaysAhead) * 24 * time.Hour)
	vectorFilter := ports.VectorFilter{
		Statuses:    []string{tendermodel.StatusPublished},
		Categories:  filters.Sectors,
		Regions:     filters.Regions,
		MaxDeadline: &maxDeadline,
	}

	dismissed, err := m.interactions.ListDismissedTenderIDs(ctx, accountID)
	if err != nil {
		dismissed = nil
	}
	dismissedSet := make(map[string]bool, len(dismissed))
	for _, id := range dismissed {
		dismissedSet[id] = true
	}

	limit := filters.Limit
	k := limit * 10
	if k < 200 {
		k = 200
	}

	// VECTOR_CANDIDATES (fallback: RULE_CANDIDATES)
	candidates, semanticByID, semanticUnavailable, err := m.gatherCandidates(ctx, profile.ID, vectorFilter, k, filters)
	if err != nil {
		return nil, err
	}

	tenders, err := m.tenders.GetByIDs(ctx, candidates)
	if err != nil {
		return nil, err
	}

	popularityP95, err := m.tenders.PopularityPercentile(ctx, 0.95)
	if err != nil || popularityP95 <= 0 {
		popularityP95 = 1
	}

	// SCORE
	items := make([]model.RecommendationItem, 0, len(tenders))
	for _, tender := range tenders {
		if dismissedSet[tender.ID] {
			continue
		}
		if tender.EffectiveStatus() != tendermodel.StatusPublished {
			continue
		}
		days := tender.DaysUntilDeadline()
		if days != nil && *days > filters.DaysAhead {
			continue
		}

		semantic := semanticByID[tender.ID]
		popularityNorm := math.Min(1, tender.PopularityScore/popularityP95)
		matchScore, reasons := m.scorer.Score(profile, tender, semantic, popularityNorm)

		items = append(items, model.RecommendationItem{
			Tender:             tender.ToDTO(),
			MatchScore:         matchScore,
			MatchReasons:       reasons,
			SemanticSimilarity: math.Max(0, math.Min(1, semantic)),
			DaysUntilDeadline:  days,
		})
	}

	// THRESHOLD
	threshold := math.Max(filters.MinScore, profile.MinMatchThreshold)
	kept := items[:0]
	for _, item := range items {
		if float64(item.MatchScore) >= threshold {
			kept = append(kept, item)
		}
	}
	items = kept

	// RANK
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].MatchScore != items[j].MatchScore {
			return items[i].MatchScore > items[j].MatchScore
		}
		if items[i].SemanticSimilarity != items[j].SemanticSimilarity {
			return items[i].SemanticSimilarity > items[j].SemanticSimilarity
		}
		return items[i].Tender.ID < items[j].Tender.ID
	})

	total := len(items)
	if len(items) > limit {
		items = items[:limit]
	}

	return &model.RecommendationResponse{
		Items:               items,
		Total:               total,
		ProfileCompletion:   profile.CompletionPercentage,
		FiltersApplied:      filters,
		GeneratedAt:         generatedAt,
		SemanticUnavailable: semanticUnavailable,
	}, nil
}

// gatherCandidates runs VECTOR_CANDIDATES, falling back to
// RULE_CANDIDATES when the profile has no vector yet or the vector
// store stage times out.
func (m *Matcher) gatherCandidates(ctx context.Context, profileID string, filter ports.VectorFilter, k int, filters model.Filters) ([]string, map[string]float64, bool, error) {
	profileVector, err := m.profileVecs.GetProfileVector(ctx, profileID)
	if err != nil || len(profileVector) == 0 {
		ids, ferr := m.ruleCandidates(ctx, filters, k)
		return ids, map[string]float64{}, true, ferr
	}

	var matches []ports.VectorMatch
	candidateCtx, cancel := context.WithTimeout(ctx, candidateTimeout)
	defer cancel()

	g, gctx := errgroup.WithContext(candidateCtx)
	g.Go(func() error {
		var err error
		matches, err = m.vectors.KNN(gctx, profileVector, k, filter)
		return err
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			ids, ferr := m.ruleCandidates(ctx, filters, min(k, 100))
			return ids, map[string]float64{}, true, ferr
		}
		return nil, nil, false, model.ErrVectorStoreUnavailable
	}

	ids := make([]string, 0, len(matches))
	semantic := make(map[string]float64, len(matches))
	for _, match := range matches {
		ids = append(ids, match.TenderID)
		semantic[match.TenderID] = match.CosineSimilarity
	}
	return ids, semantic, false, nil
}

// ruleCandidates selects the top-K published tenders by a cheap
// sector/region overlap ordered by recency, used when semantic
// candidate generation is unavailable.
func (m *Matcher) ruleCandidates(ctx context.Context, filters model.Filters, k int) ([]string, error) {
	dtoList, _, err := m.tenders.List(ctx, tenderports.ListFilter{
		Status:    tendermodel.StatusPublished,
		Sectors:   filters.Sectors,
		Regions:   filters.Regions,
		DaysAhead: filters.DaysAhead,
		Limit:     k,
	})
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(dtoList))
	for _, dto := range dtoList {
		ids = append(ids, dto.ID)
	}
	return ids, nil
}

// Similar implements the Similar-Tender Service: a k-NN lookup by
// reference document with keyword-overlap annotation.
func (m *Matcher) Similar(ctx context.Context, tenderID string, limit int) (*model.SimilarResponse, error) {
	if limit <= 0 {
		limit = model.DefaultLimit
	}
	if limit > model.MaxLimit {
		limit = model.MaxLimit
	}

	ref, err := m.tenders.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	refVector, err := m.vectors.GetTenderVector(ctx, tenderID)
	if err != nil {
		return nil, model.ErrVectorStoreUnavailable
	}
	if len(refVector) == 0 {
		return nil, model.ErrReferenceNotEmbedded
	}

	matches, err := m.vectors.KNN(ctx, refVector, limit+1, ports.VectorFilter{
		Statuses: []string{tendermodel.StatusPublished},
	})
	if err != nil {
		return nil, model.ErrVectorStoreUnavailable
	}

	candidateIDs := make([]string, 0, len(matches))
	similarityByID := make(map[string]float64, len(matches))
	for _, match := range matches {
		if match.TenderID == tenderID {
			continue
		}
		candidateIDs = append(candidateIDs, match.TenderID)
		similarityByID[match.TenderID] = match.CosineSimilarity
	}
	if len(candidateIDs) > limit {
		candidateIDs = candidateIDs[:limit]
	}

	candidates, err := m.tenders.GetByIDs(ctx, candidateIDs)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]*tendermodel.Tender, len(candidates))
	for _, c := range candidates {
		byID[c.ID] = c
	}

	items := make([]model.SimilarItem, 0, len(candidateIDs))
	for _, id := range candidateIDs {
		candidate, ok := byID[id]
		if !ok {
			continue
		}
		score := int(math.Round(100 * similarityByID[id]))
		if score > 100 {
			score = 100
		}
		if score < 0 {
			score = 0
		}
		items = append(items, model.SimilarItem{
			Tender:          candidate.ToDTO(),
			SimilarityScore: score,
			CommonKeywords:  commonKeywords(ref, candidate),
		})
	}

	return &model.SimilarResponse{
		Ref:   ref.ToDTO(),
		Items: items,
	}, nil
}
