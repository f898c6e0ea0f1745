package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teddycheru/tenderlens/modules/tenders/model"
	"github.com/teddycheru/tenderlens/modules/tenders/ports"
)

// MockTenderRepository implements ports.TenderRepository
type MockTenderRepository struct {
	CreateFunc               func(ctx context.Context, tender *model.Tender) error
	GetByIDFunc              func(ctx context.Context, tenderID string) (*model.Tender, error)
	GetByIDsFunc             func(ctx context.Context, tenderIDs []string) ([]*model.Tender, error)
	ListFunc                 func(ctx context.Context, filter ports.ListFilter) ([]*model.TenderDTO, int, error)
	UpdateFunc               func(ctx context.Context, tender *model.Tender) error
	DeleteFunc               func(ctx context.Context, tenderID string) error
	IncrementPopularityFunc  func(ctx context.Context, tenderID, interactionType string, weight float64) error
	PopularityPercentileFunc func(ctx context.Context, percentile float64) (float64, error)
	SetEmbeddingUpdatedAtFunc func(ctx context.Context, tenderID string, at time.Time) error
}

func (m *MockTenderRepository) Create(ctx context.Context, tender *model.Tender) error {
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, tender)
	}
	return nil
}

func (m *MockTenderRepository) GetByID(ctx context.Context, tenderID string) (*model.Tender, error) {
	if m.GetByIDFunc != nil {
		return m.GetByIDFunc(ctx, tenderID)
	}
	return nil, nil
}

func (m *MockTenderRepository) GetByIDs(ctx context.Context, tenderIDs []string) ([]*model.Tender, error) {
	if m.GetByIDsFunc != nil {
		return m.GetByIDsFunc(ctx, tenderIDs)
	}
	return nil, nil
}

func (m *MockTenderRepository) List(ctx context.Context, filter ports.ListFilter) ([]*model.TenderDTO, int, error) {
	if m.ListFunc != nil {
		return m.ListFunc(ctx, filter)
	}
	return nil, 0, nil
}

func (m *MockTenderRepository) Update(ctx context.Context, tender *model.Tender) error {
	if m.UpdateFunc != nil {
		return m.UpdateFunc(ctx, tender)
	}
	return nil
}

func (m *MockTenderRepository) Delete(ctx context.Context, tenderID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, tenderID)
	}
	return nil
}

func (m *MockTenderRepository) IncrementPopularity(ctx context.Context, tenderID, interactionType string, weight float64) error {
	if m.IncrementPopularityFunc != nil {
		return m.IncrementPopularityFunc(ctx, tenderID, interactionType, weight)
	}
	return nil
}

func (m *MockTenderRepository) PopularityPercentile(ctx context.Context, percentile float64) (float64, error) {
	if m.PopularityPercentileFunc != nil {
		return m.PopularityPercentileFunc(ctx, percentile)
	}
	return 0, nil
}

func (m *MockTenderRepository) SetEmbeddingUpdatedAt(ctx context.Context, tenderID string, at time.Time) error {
	if m.SetEmbeddingUpdatedAtFunc != nil {
		return m.SetEmbeddingUpdatedAtFunc(ctx, tenderID, at)
	}
	return nil
}

// mockEmbedder implements ports.Embedder
type mockEmbedder struct {
	EmbedFunc func(ctx context.Context, text string) ([]float32, error)
}

func (m *mockEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if m.EmbedFunc != nil {
		return m.EmbedFunc(ctx, text)
	}
	return []float32{0.1, 0.2}, nil
}

// mockVectorUpserter implements ports.TenderVectorUpserter
type mockVectorUpserter struct {
	UpsertFunc func(ctx context.Context, tenderID string, vector []float32, metadata map[string]interface{}) error
}

func (m *mockVectorUpserter) UpsertTenderVector(ctx context.Context, tenderID string, vector []float32, metadata map[string]interface{}) error {
	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, tenderID, vector, metadata)
	}
	return nil
}

// mockContentExtractor implements ports.ContentExtractor
type mockContentExtractor struct {
	RequestFunc func(ctx context.Context, tenderID, rawText string) error
	StatusFunc  func(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error)
	ResultFunc  func(ctx context.Context, tenderID string) (*ports.ExtractedContent, error)
}

func (m *mockContentExtractor) RequestExtraction(ctx context.Context, tenderID, rawText string) error {
	if m.RequestFunc != nil {
		return m.RequestFunc(ctx, tenderID, rawText)
	}
	return nil
}

func (m *mockContentExtractor) ContentStatus(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error) {
	if m.StatusFunc != nil {
		return m.StatusFunc(ctx, tenderID)
	}
	return ports.ContentPending, nil
}

func (m *mockContentExtractor) ContentResult(ctx context.Context, tenderID string) (*ports.ExtractedContent, error) {
	if m.ResultFunc != nil {
		return m.ResultFunc(ctx, tenderID)
	}
	return nil, nil
}

func TestTenderService_Create(t *testing.T) {
	t.Run("creates tender successfully", func(t *testing.T) {
		mockRepo := &MockTenderRepository{
			CreateFunc: func(ctx context.Context, tender *model.Tender) error {
				tender.ID = "tender-1"
				tender.CreatedAt = time.Now()
				tender.UpdatedAt = time.Now()
				return nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		req := &model.CreateTenderRequest{
			SourceURL:   "https://example.com/t/1",
			Title:       "Road construction",
			Description: "Build a road",
			Category:    "construction",
			Region:      "addis-ababa",
		}

		result, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "tender-1", result.ID)
		assert.Equal(t, "Road construction", result.Title)
	})

	t.Run("returns error for empty source url", func(t *testing.T) {
		svc := NewTenderService(&MockTenderRepository{}, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		req := &model.CreateTenderRequest{SourceURL: "  "}

		result, err := svc.Create(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, model.ErrTenderSourceURLRequired, err)
	})

	t.Run("rejects budget_min greater than budget_max", func(t *testing.T) {
		svc := NewTenderService(&MockTenderRepository{}, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		min, max := 500.0, 100.0
		req := &model.CreateTenderRequest{
			SourceURL: "https://example.com/t/1",
			BudgetMin: &min,
			BudgetMax: &max,
		}

		result, err := svc.Create(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, model.ErrInvalidBudgetRange, err)
	})

	t.Run("returns error from repository", func(t *testing.T) {
		expectedErr := errors.New("database error")
		mockRepo := &MockTenderRepository{
			CreateFunc: func(ctx context.Context, tender *model.Tender) error {
				return expectedErr
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		req := &model.CreateTenderRequest{SourceURL: "https://example.com/t/1"}

		result, err := svc.Create(context.Background(), req)

		assert.Nil(t, result)
		assert.Equal(t, expectedErr, err)
	})

	t.Run("requests content extraction for a non-empty description", func(t *testing.T) {
		mockRepo := &MockTenderRepository{
			CreateFunc: func(ctx context.Context, tender *model.Tender) error {
				tender.ID = "tender-1"
				return nil
			},
		}
		var requestedID, requestedText string
		extractor := &mockContentExtractor{
			RequestFunc: func(ctx context.Context, tenderID, rawText string) error {
				requestedID = tenderID
				requestedText = rawText
				return nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, extractor)
		req := &model.CreateTenderRequest{
			SourceURL:   "https://example.com/t/1",
			Description: "Build a road",
		}

		_, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
		assert.Equal(t, "tender-1", requestedID)
		assert.Equal(t, "Build a road", requestedText)
	})

	t.Run("skips content extraction when no extractor is configured", func(t *testing.T) {
		mockRepo := &MockTenderRepository{
			CreateFunc: func(ctx context.Context, tender *model.Tender) error {
				tender.ID = "tender-1"
				return nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		req := &model.CreateTenderRequest{SourceURL: "https://example.com/t/1", Description: "Build a road"}

		_, err := svc.Create(context.Background(), req)

		require.NoError(t, err)
	})
}

func TestTenderService_ContentStatus(t *testing.T) {
	t.Run("returns error when no extractor is configured", func(t *testing.T) {
		svc := NewTenderService(&MockTenderRepository{}, &mockEmbedder{}, &mockVectorUpserter{}, nil)

		_, err := svc.ContentStatus(context.Background(), "tender-1")

		assert.Equal(t, model.ErrContentExtractionUnavailable, err)
	})

	t.Run("persists extracted content exactly once when ready", func(t *testing.T) {
		tender := &model.Tender{ID: "tender-1", Title: "Road construction"}
		var updated *model.Tender

		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return tender, nil
			},
			UpdateFunc: func(ctx context.Context, t *model.Tender) error {
				updated = t
				return nil
			},
		}
		extractor := &mockContentExtractor{
			StatusFunc: func(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error) {
				return ports.ContentReady, nil
			},
			ResultFunc: func(ctx context.Context, tenderID string) (*ports.ExtractedContent, error) {
				return &ports.ExtractedContent{
					CleanDescription: "A clean description.",
					Highlights:       []string{"12-month term"},
					Extracted:        &model.ExtractedData{Organization: "District 4"},
				}, nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, extractor)

		status, err := svc.ContentStatus(context.Background(), "tender-1")

		require.NoError(t, err)
		assert.Equal(t, ports.ContentReady, status)
		require.NotNil(t, updated)
		require.NotNil(t, updated.CleanDescription)
		assert.Equal(t, "A clean description.", *updated.CleanDescription)
		assert.Equal(t, []string{"12-month term"}, updated.Highlights)
		assert.Equal(t, "District 4", updated.Extracted.Organization)
	})

	t.Run("does not re-apply extracted content once already persisted", func(t *testing.T) {
		clean := "Already persisted."
		tender := &model.Tender{ID: "tender-1", CleanDescription: &clean}
		updateCalled := false

		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return tender, nil
			},
			UpdateFunc: func(ctx context.Context, t *model.Tender) error {
				updateCalled = true
				return nil
			},
		}
		extractor := &mockContentExtractor{
			StatusFunc: func(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error) {
				return ports.ContentCached, nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, extractor)

		status, err := svc.ContentStatus(context.Background(), "tender-1")

		require.NoError(t, err)
		assert.Equal(t, ports.ContentCached, status)
		assert.False(t, updateCalled)
	})
}

func TestTenderService_GetByID(t *testing.T) {
	t.Run("returns tender successfully", func(t *testing.T) {
		expectedTender := &model.Tender{
			ID:        "tender-1",
			Title:     "Road construction",
			Status:    model.StatusPublished,
			CreatedAt: time.Now(),
			UpdatedAt: time.Now(),
		}

		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return expectedTender, nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		result, err := svc.GetByID(context.Background(), "tender-1")

		require.NoError(t, err)
		assert.Equal(t, "tender-1", result.ID)
	})

	t.Run("returns error when tender not found", func(t *testing.T) {
		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return nil, model.ErrTenderNotFound
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		result, err := svc.GetByID(context.Background(), "nonexistent")

		assert.Nil(t, result)
		assert.Equal(t, model.ErrTenderNotFound, err)
	})
}

func TestTenderService_Embed(t *testing.T) {
	t.Run("embeds and upserts successfully", func(t *testing.T) {
		tender := &model.Tender{
			ID:       "tender-1",
			Title:    "Road construction",
			Category: "construction",
			Region:   "addis-ababa",
			Status:   model.StatusPublished,
		}

		var upsertedVector []float32
		var stampedID string

		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return tender, nil
			},
			SetEmbeddingUpdatedAtFunc: func(ctx context.Context, tenderID string, at time.Time) error {
				stampedID = tenderID
				return nil
			},
		}
		embedder := &mockEmbedder{
			EmbedFunc: func(ctx context.Context, text string) ([]float32, error) {
				return []float32{0.5, 0.5}, nil
			},
		}
		vectors := &mockVectorUpserter{
			UpsertFunc: func(ctx context.Context, tenderID string, vector []float32, metadata map[string]interface{}) error {
				upsertedVector = vector
				return nil
			},
		}

		svc := NewTenderService(mockRepo, embedder, vectors, nil)
		result, err := svc.Embed(context.Background(), "tender-1")

		require.NoError(t, err)
		assert.Equal(t, []float32{0.5, 0.5}, upsertedVector)
		assert.Equal(t, "tender-1", stampedID)
		assert.Equal(t, "tender-1", result.ID)
	})

	t.Run("returns error when tender not found", func(t *testing.T) {
		mockRepo := &MockTenderRepository{
			GetByIDFunc: func(ctx context.Context, tenderID string) (*model.Tender, error) {
				return nil, model.ErrTenderNotFound
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		result, err := svc.Embed(context.Background(), "nonexistent")

		assert.Nil(t, result)
		assert.Equal(t, model.ErrTenderNotFound, err)
	})
}

func TestTenderService_Delete(t *testing.T) {
	t.Run("deletes tender successfully", func(t *testing.T) {
		var deletedID string
		mockRepo := &MockTenderRepository{
			DeleteFunc: func(ctx context.Context, tenderID string) error {
				deletedID = tenderID
				return nil
			},
		}

		svc := NewTenderService(mockRepo, &mockEmbedder{}, &mockVectorUpserter{}, nil)
		err := svc.Delete(context.Background(), "tender-1")

		require.NoError(t, err)
		assert.Equal(t, "tender-1", deletedID)
	})
}

func TestTender_ToDTO(t *testing.T) {
	now := time.Now()
	past := now.Add(-24 * time.Hour)

	tender := &model.Tender{
		ID:        "tender-1",
		Title:     "Road construction",
		Category:  "construction",
		Region:    "addis-ababa",
		Status:    model.StatusPublished,
		Deadline:  &past,
		CreatedAt: now,
		UpdatedAt: now,
	}

	dto := tender.ToDTO()

	assert.Equal(t, tender.ID, dto.ID)
	assert.Equal(t, tender.Title, dto.Title)
	// deadline in the past flips the effective status to closed, even
	// though the stored status column still says published.
	assert.Equal(t, model.StatusClosed, dto.Status)
}
