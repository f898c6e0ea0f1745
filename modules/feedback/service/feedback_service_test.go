package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teddycheru/tenderlens/modules/feedback/model"
	profilemodel "github.com/teddycheru/tenderlens/modules/profiles/model"
	profileservice "github.com/teddycheru/tenderlens/modules/profiles/service"
	tendermodel "github.com/teddycheru/tenderlens/modules/tenders/model"
	tenderports "github.com/teddycheru/tenderlens/modules/tenders/ports"
)

// MockInteractionRepository implements ports.InteractionRepository
type MockInteractionRepository struct {
	CreateFunc                  func(ctx context.Context, i *model.Interaction) (bool, error)
	StatsFunc                   func(ctx context.Context, userID string) (*model.InteractionStats, error)
	ListDismissedTenderIDsFunc  func(ctx context.Context, userID string) ([]string, error)
	CountPositiveByCategoryFunc func(ctx context.Context, userID, category string) (int, error)
	CountDismissedByRegionFunc  func(ctx context.Context, userID, region string) (int, error)
}

func (m *MockInteractionRepository) Create(ctx context.Context, i *model.Interaction) (bool, error) {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, i)
	}
	i.ID = "interaction-1"
	return true, nil
}
func (m *MockInteractionRepository) Stats(ctx context.Context, userID string) (*model.InteractionStats, error) {
	if m.StatsFunc != nil {
		return m.StatsFunc(ctx, userID)
	}
	return &model.InteractionStats{}, nil
}
func (m *MockInteractionRepository) ListDismissedTenderIDs(ctx context.Context, userID string) ([]string, error) {
	if m.ListDismissedTenderIDsFunc != nil {
		return m.ListDismissedTenderIDsFunc(ctx, userID)
	}
	return nil, nil
}
func (m *MockInteractionRepository) CountPositiveByCategory(ctx context.Context, userID, category string) (int, error) {
	if m.CountPositiveByCategoryFunc != nil {
		return m.CountPositiveByCategoryFunc(ctx, userID, category)
	}
	return 0, nil
}
func (m *MockInteractionRepository) CountDismissedByRegion(ctx context.Context, userID, region string) (int, error) {
	if m.CountDismissedByRegionFunc != nil {
		return m.CountDismissedByRegionFunc(ctx, userID, region)
	}
	return 0, nil
}

// MockProfileRepository implements profiles/ports.ProfileRepository
type MockProfileRepository struct {
	GetByIDFunc                    func(ctx context.Context, id string) (*profilemodel.CompanyProfile, error)
	UpdateFunc                     func(ctx context.Context, p *profilemodel.CompanyProfile) error
	MarkEmbeddingDirtyFunc         func(ctx context.Context, id string) error
	ClearEmbeddingDirtyFunc        func(ctx context.Context, id string, at time.Time) error
	IncrementInteractionCountersFunc func(ctx context.Context, id string) error
}

func (m *MockProfileRepository) Create(ctx context.Context, p *profilemodel.CompanyProfile) error { return nil }
func (m *MockProfileRepository) GetByID(ctx context.Context, id string) (*profilemodel.CompanyProfile, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, id)
	}
	return nil, nil
}
func (m *MockProfileRepository) GetByAccountID(ctx context.Context, accountID string) (*profilemodel.CompanyProfile, error) {
	return nil, nil
}
func (m *MockProfileRepository) Update(ctx context.Context, p *profilemodel.CompanyProfile) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, p)
	}
	return nil
}
func (m *MockProfileRepository) Delete(ctx context.Context, id string) error { return nil }
func (m *MockProfileRepository) MarkEmbeddingDirty(ctx context.Context, id string) error {
	if m.MarkEmbeddingDirtyFunc != nil {
		return m.MarkEmbeddingDirtyFunc(ctx, id)
	}
	return nil
}
func (m *MockProfileRepository) ClearEmbeddingDirty(ctx context.Context, id string, at time.Time) error {
	if m.ClearEmbeddingDirtyFunc != nil {
		return m.ClearEmbeddingDirtyFunc(ctx, id, at)
	}
	return nil
}
func (m *MockProfileRepository) IncrementInteractionCounters(ctx context.Context, id string) error {
	if m.IncrementInteractionCountersFunc != nil {
		return m.IncrementInteractionCountersFunc(ctx, id)
	}
	return nil
}

type mockEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

type mockProfileVectorStore struct{}

func (m *mockProfileVectorStore) UpsertProfileVector(ctx context.Context, profileID string, vector []float32) error {
	return nil
}
func (m *mockProfileVectorStore) GetProfileVector(ctx context.Context, profileID string) ([]float32, error) {
	return nil, nil
}

// MockTenderRepository implements tenders/ports.TenderRepository
type MockTenderRepository struct {
	GetByIDFunc             func(ctx context.Context, id string) (*tendermodel.Tender, error)
	IncrementPopularityFunc func(ctx context.Context, id, interactionType string, weight float64) error
}

func (m *MockTenderRepository) Create(ctx context.Context, t *tendermodel.Tender) error { return nil }
func (m *MockTenderRepository) GetByID(ctx context.Context, id string) (*tendermodel.Tender, error) {
	return m.GetByIDFunc(ctx, id)
}
func (m *MockTenderRepository) GetByIDs(ctx context.Context, ids []string) ([]*tendermodel.Tender, error) {
	return nil, nil
}
func (m *MockTenderRepository) List(ctx context.Context, filter tenderports.ListFilter) ([]*tendermodel.TenderDTO, int, error) {
	return nil, 0, nil
}
func (m *MockTenderRepository) Update(ctx context.Context, t *tendermodel.Tender) error { return nil }
func (m *MockTenderRepository) Delete(ctx context.Context, id string) error             { return nil }
func (m *MockTenderRepository) IncrementPopularity(ctx context.Context, id, interactionType string, weight float64) error {
	if m.IncrementPopularityFunc != nil {
		return m.IncrementPopularityFunc(ctx, id, interactionType, weight)
	}
	return nil
}
func (m *MockTenderRepository) PopularityPercentile(ctx context.Context, percentile float64) (float64, error) {
	return 1, nil
}
func (m *MockTenderRepository) SetEmbeddingUpdatedAt(ctx context.Context, id string, at time.Time) error {
	return nil
}

func newTestProfileService(profiles *MockProfileRepository) *profileservice.ProfileService {
	return profileservice.NewProfileService(profiles, &mockEmbedder{}, &mockProfileVectorStore{})
}

func baseTestProfile() *profilemodel.CompanyProfile {
	return &profilemodel.CompanyProfile{
		ID:                  "profile-1",
		ActiveSectors:       []string{"IT"},
		DiscoveredInterests: []string{},
		CreatedAt:           time.Now().UTC().Add(-2 * time.Hour),
	}
}

func TestFeedbackService_RecordInteraction_UnknownType(t *testing.T) {
	svc := NewFeedbackService(&MockInteractionRepository{}, &MockProfileRepository{}, &MockTenderRepository{}, newTestProfileService(&MockProfileRepository{}), Config{DedupWindow: 10 * time.Second})

	_, err := svc.RecordInteraction(context.Background(), baseTestProfile(), "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "bogus"})
	assert.ErrorIs(t, err, model.ErrUnknownInteractionType)
}

func TestFeedbackService_RecordInteraction_BumpsPopularityAndCounters(t *testing.T) {
	var incrementedWeight float64
	var countersIncremented bool

	tenders := &MockTenderRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*tendermodel.Tender, error) {
			return &tendermodel.Tender{ID: id, Category: "construction", Region: "Addis Ababa"}, nil
		},
		IncrementPopularityFunc: func(ctx context.Context, id, interactionType string, weight float64) error {
			incrementedWeight = weight
			return nil
		},
	}
	profiles := &MockProfileRepository{
		IncrementInteractionCountersFunc: func(ctx context.Context, id string) error {
			countersIncremented = true
			return nil
		},
		GetByIDFunc: func(ctx context.Context, id string) (*profilemodel.CompanyProfile, error) {
			return baseTestProfile(), nil
		},
	}
	svc := NewFeedbackService(&MockInteractionRepository{}, profiles, tenders, newTestProfileService(profiles), Config{DedupWindow: 10 * time.Second, ReembedMinInterval: time.Hour, NReembed: 25})

	result, err := svc.RecordInteraction(context.Background(), baseTestProfile(), "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "save"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, 5.0, incrementedWeight)
	assert.True(t, countersIncremented)
}

func TestFeedbackService_RecordInteraction_ShortViewHasZeroWeight(t *testing.T) {
	var incrementCalled bool
	tenders := &MockTenderRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*tendermodel.Tender, error) {
			return &tendermodel.Tender{ID: id, Category: "IT", Region: "Addis Ababa"}, nil
		},
		IncrementPopularityFunc: func(ctx context.Context, id, interactionType string, weight float64) error {
			incrementCalled = true
			return nil
		},
	}
	profiles := &MockProfileRepository{}
	svc := NewFeedbackService(&MockInteractionRepository{}, profiles, tenders, newTestProfileService(profiles), Config{DedupWindow: 10 * time.Second})

	shortTime := 2
	_, err := svc.RecordInteraction(context.Background(), baseTestProfile(), "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "view", TimeSpentSeconds: &shortTime})

	require.NoError(t, err)
	assert.False(t, incrementCalled)
}

func TestFeedbackService_RecordInteraction_Idempotent(t *testing.T) {
	interactions := &MockInteractionRepository{
		CreateFunc: func(ctx context.Context, i *model.Interaction) (bool, error) {
			return false, nil
		},
	}
	var incrementCalled bool
	tenders := &MockTenderRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*tendermodel.Tender, error) {
			return &tendermodel.Tender{ID: id, Category: "IT", Region: "Addis Ababa"}, nil
		},
		IncrementPopularityFunc: func(ctx context.Context, id, interactionType string, weight float64) error {
			incrementCalled = true
			return nil
		},
	}
	svc := NewFeedbackService(interactions, &MockProfileRepository{}, tenders, newTestProfileService(&MockProfileRepository{}), Config{DedupWindow: 10 * time.Second})

	result, err := svc.RecordInteraction(context.Background(), baseTestProfile(), "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "apply"})

	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.False(t, incrementCalled)
}

func TestFeedbackService_DiscoveredInterests_AddedAboveThreshold(t *testing.T) {
	var updatedProfile *profilemodel.CompanyProfile
	var markedDirty bool

	interactions := &MockInteractionRepository{
		CountPositiveByCategoryFunc: func(ctx context.Context, userID, category string) (int, error) {
			return 3, nil
		},
	}
	profiles := &MockProfileRepository{
		UpdateFunc: func(ctx context.Context, p *profilemodel.CompanyProfile) error {
			updatedProfile = p
			return nil
		},
		MarkEmbeddingDirtyFunc: func(ctx context.Context, id string) error {
			markedDirty = true
			return nil
		},
	}
	tenders := &MockTenderRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*tendermodel.Tender, error) {
			return &tendermodel.Tender{ID: id, Category: "construction", Region: "Addis Ababa"}, nil
		},
	}
	svc := NewFeedbackService(interactions, profiles, tenders, newTestProfileService(profiles), Config{DedupWindow: 10 * time.Second, DiscoveredInterestMin: 3})

	profile := baseTestProfile()
	_, err := svc.RecordInteraction(context.Background(), profile, "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "save"})

	require.NoError(t, err)
	require.NotNil(t, updatedProfile)
	assert.Contains(t, updatedProfile.DiscoveredInterests, "construction")
	assert.True(t, markedDirty)
}

func TestFeedbackService_DismissLearning_RemovesRegionAfterThreshold(t *testing.T) {
	var updatedProfile *profilemodel.CompanyProfile

	interactions := &MockInteractionRepository{
		CountDismissedByRegionFunc: func(ctx context.Context, userID, region string) (int, error) {
			return 3, nil
		},
	}
	profiles := &MockProfileRepository{
		UpdateFunc: func(ctx context.Context, p *profilemodel.CompanyProfile) error {
			updatedProfile = p
			return nil
		},
	}
	tenders := &MockTenderRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*tendermodel.Tender, error) {
			return &tendermodel.Tender{ID: id, Category: "IT", Region: "Oromia"}, nil
		},
	}
	svc := NewFeedbackService(interactions, profiles, tenders, newTestProfileService(profiles), Config{DedupWindow: 10 * time.Second})

	profile := baseTestProfile()
	profile.DiscoveredInterests = []string{"Oromia"}
	_, err := svc.RecordInteraction(context.Background(), profile, "user-1", "tender-1", &model.RecordInteractionRequest{InteractionType: "dismiss"})

	require.NoError(t, err)
	require.NotNil(t, updatedProfile)
	assert.NotContains(t, updatedProfile.DiscoveredInterests, "Oromia")
}

func TestFeedbackService_TriggerReembedIfDirty_NotDirty(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*profilemodel.CompanyProfile, error) {
			p := baseTestProfile()
			p.EmbeddingDirty = false
			return p, nil
		},
	}
	svc := NewFeedbackService(&MockInteractionRepository{}, profiles, &MockTenderRepository{}, newTestProfileService(profiles), Config{})

	result, err := svc.TriggerReembedIfDirty(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.False(t, result.Reembedded)
}

func TestFeedbackService_TriggerReembedIfDirty_DueByCount(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*profilemodel.CompanyProfile, error) {
			p := baseTestProfile()
			p.EmbeddingDirty = true
			p.InteractionCountSinceLastEmbed = 30
			now := time.Now().UTC()
			p.EmbeddingUpdatedAt = &now
			return p, nil
		},
	}
	svc := NewFeedbackService(&MockInteractionRepository{}, profiles, &MockTenderRepository{}, newTestProfileService(profiles), Config{ReembedMinInterval: time.Hour, NReembed: 25})

	result, err := svc.TriggerReembedIfDirty(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.True(t, result.Reembedded)
}

func TestFeedbackService_TriggerReembedIfDirty_NotDueYet(t *testing.T) {
	profiles := &MockProfileRepository{
		GetByIDFunc: func(ctx context.Context, id string) (*profilemodel.CompanyProfile, error) {
			p := baseTestProfile()
			p.EmbeddingDirty = true
			now := time.Now().UTC()
			p.EmbeddingUpdatedAt = &now
			p.InteractionCountSinceLastEmbed = 1
			return p, nil
		},
	}
	svc := NewFeedbackService(&MockInteractionRepository{}, profiles, &MockTenderRepository{}, newTestProfileService(profiles), Config{ReembedMinInterval: time.Hour, NReembed: 25})

	result, err := svc.TriggerReembedIfDirty(context.Background(), "profile-1")
	require.NoError(t, err)
	assert.False(t, result.Reembedded)
}
