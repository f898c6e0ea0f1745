// Package service implements the Feedback Processor: interaction
// ingestion, per-tender popularity, per-profile discovered-interest
// learning, and the single-flight re-embed trigger.
package service

import (
	"context"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/teddycheru/tenderlens/modules/feedback/model"
	"github.com/teddycheru/tenderlens/modules/feedback/ports"
	profilemodel "github.com/teddycheru/tenderlens/modules/profiles/model"
	profileports "github.com/teddycheru/tenderlens/modules/profiles/ports"
	profileservice "github.com/teddycheru/tenderlens/modules/profiles/service"
	tenderports "github.com/teddycheru/tenderlens/modules/tenders/ports"
)

const (
	discoveredInterestsCap = 10
	dismissLearningMin     = 3
	minViewSeconds         = 5
)

// FeedbackService implements RecordInteraction, GetUserInteractionStats,
// and TriggerReembedIfDirty. It depends on the owning modules' own ports
// (profiles, tenders) rather than duplicating their interfaces, the same
// cross-module orchestration pattern modules/recommend's Matcher uses.
type FeedbackService struct {
	interactions ports.InteractionRepository
	profiles     profileports.ProfileRepository
	tenders      tenderports.TenderRepository
	profileSvc   *profileservice.ProfileService

	dedupWindow    time.Duration
	reembedMin     time.Duration
	nReembed       int
	discoveredMin  int
	reembedFlight  singleflight.Group
}

// Config carries the Feedback Processor's tuning knobs.
type Config struct {
	DedupWindow           time.Duration
	ReembedMinInterval    time.Duration
	NReembed              int
	DiscoveredInterestMin int
}

func NewFeedbackService(
	interactions ports.InteractionRepository,
	profiles profileports.ProfileRepository,
	tenders tenderports.TenderRepository,
	profileSvc *profileservice.ProfileService,
	cfg Config,
) *FeedbackService {
	return &FeedbackService{
		interactions:  interactions,
		profiles:      profiles,
		tenders:       tenders,
		profileSvc:    profileSvc,
		dedupWindow:   cfg.DedupWindow,
		reembedMin:    cfg.ReembedMinInterval,
		nReembed:      cfg.NReembed,
		discoveredMin: cfg.DiscoveredInterestMin,
	}
}

// RecordInteraction logs an interaction, bumps tender popularity, and
// updates profile aggregates. The first three effects are all-or-nothing
// for the log write itself; the re-embed trigger is best-effort and
// never fails the request.
func (s *FeedbackService) RecordInteraction(ctx context.Context, profile *profilemodel.CompanyProfile, userID, tenderID string, req *model.RecordInteractionRequest) (*model.RecordInteractionResult, error) {
	itype := model.InteractionType(req.InteractionType)
	if !model.IsValidType(itype) {
		return nil, model.ErrUnknownInteractionType
	}

	tender, err := s.tenders.GetByID(ctx, tenderID)
	if err != nil {
		return nil, model.ErrTenderNotFound
	}

	weight := model.Weight(itype, req.TimeSpentSeconds, minViewSeconds)
	bucket := time.Now().UTC().Truncate(s.dedupWindow)

	interaction := &model.Interaction{
		UserID:                  userID,
		TenderID:                tenderID,
		Type:                    itype,
		Weight:                  weight,
		TimeSpentSeconds:        req.TimeSpentSeconds,
		MatchScoreAtTime:        req.MatchScoreAtTime,
		FeedbackReason:          req.FeedbackReason,
		TenderCategorySnapshot:  tender.Category,
		TenderRegionSnapshot:    tender.Region,
		TenderBudgetMinSnapshot: tender.BudgetMin,
		TenderBudgetMaxSnapshot: tender.BudgetMax,
		DedupBucket:             bucket,
	}

	created, err := s.interactions.Create(ctx, interaction)
	if err != nil {
		return nil, err
	}
	if !created {
		return &model.RecordInteractionResult{
			Success:       true,
			InteractionID: "",
			Message:       "interaction already recorded",
		}, nil
	}

	if weight != 0 {
		_ = s.tenders.IncrementPopularity(ctx, tenderID, string(itype), weight)
	}
	_ = s.profiles.IncrementInteractionCounters(ctx, profile.ID)

	s.updateDiscoveredInterests(ctx, profile, userID, tender.Category)
	if itype == model.InteractionDismiss {
		s.applyDismissLearning(ctx, profile, userID, tender.Region)
	}

	// Best-effort implicit re-embed; never fails the interaction write.
	_, _ = s.TriggerReembedIfDirty(ctx, profile.ID)

	return &model.RecordInteractionResult{
		Success:       true,
		InteractionID: interaction.ID,
		Message:       "interaction recorded",
	}, nil
}

// updateDiscoveredInterests: once a user has enough positive
// interactions in a category outside their active_sectors, that
// category joins discovered_interests (bounded).
func (s *FeedbackService) updateDiscoveredInterests(ctx context.Context, profile *profilemodel.CompanyProfile, userID, category string) {
	if category == "" || contains(profile.ActiveSectors, category) || contains(profile.DiscoveredInterests, category) {
		return
	}
	if len(profile.DiscoveredInterests) >= discoveredInterestsCap {
		return
	}
	count, err := s.interactions.CountPositiveByCategory(ctx, userID, category)
	if err != nil || count < s.discoveredMin {
		return
	}
	profile.DiscoveredInterests = append(profile.DiscoveredInterests, category)
	_ = s.profiles.Update(ctx, profile)
	_ = s.profiles.MarkEmbeddingDirty(ctx, profile.ID)
}

// applyDismissLearning: repeated dismissals in a region retract that
// region from discovered_interests and mark the profile dirty so the
// next re-embed reflects the retraction.
func (s *FeedbackService) applyDismissLearning(ctx context.Context, profile *profilemodel.CompanyProfile, userID, region string) {
	if region == "" || !contains(profile.DiscoveredInterests, region) {
		return
	}
	count, err := s.interactions.CountDismissedByRegion(ctx, userID, region)
	if err != nil || count < dismissLearningMin {
		return
	}
	profile.DiscoveredInterests = remove(profile.DiscoveredInterests, region)
	_ = s.profiles.Update(ctx, profile)
	_ = s.profiles.MarkEmbeddingDirty(ctx, profile.ID)
}

func (s *FeedbackService) GetUserInteractionStats(ctx context.Context, userID string) (*model.InteractionStats, error) {
	return s.interactions.Stats(ctx, userID)
}

// TriggerReembedIfDirty fires the implicit re-embed trigger: when dirty
// and either the minimum interval has elapsed since the last embed or
// enough interactions have accumulated. Single-flighted per profile so
// concurrent triggers share one embed call.
func (s *FeedbackService) TriggerReembedIfDirty(ctx context.Context, profileID string) (*model.ReembedResult, error) {
	v, err, _ := s.reembedFlight.Do(profileID, func() (interface{}, error) {
		return s.doTriggerReembed(ctx, profileID)
	})
	if err != nil {
		return nil, err
	}
	return v.(*model.ReembedResult), nil
}

func (s *FeedbackService) doTriggerReembed(ctx context.Context, profileID string) (*model.ReembedResult, error) {
	profile, err := s.profiles.GetByID(ctx, profileID)
	if err != nil {
		return nil, err
	}
	if profile == nil || !profile.EmbeddingDirty {
		return &model.ReembedResult{Reembedded: false}, nil
	}

	lastEmbed := profile.CreatedAt
	if profile.EmbeddingUpdatedAt != nil {
		lastEmbed = *profile.EmbeddingUpdatedAt
	}
	dueByTime := time.Since(lastEmbed) >= s.reembedMin
	dueByCount := profile.InteractionCountSinceLastEmbed >= s.nReembed
	if !dueByTime && !dueByCount {
		return &model.ReembedResult{Reembedded: false}, nil
	}

	if err := s.profileSvc.Embed(ctx, profileID); err != nil {
		return nil, err
	}
	return &model.ReembedResult{Reembedded: true}, nil
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

func remove(list []string, v string) []string {
	out := make([]string, 0, len(list))
	for _, item := range list {
		if item != v {
			out = append(out, item)
		}
	}
	return out
}
