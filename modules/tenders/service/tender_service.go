package service

import (
	"context"
	"strings"
	"time"

	"github.com/teddycheru/tenderlens/modules/tenders/model"
	"github.com/teddycheru/tenderlens/modules/tenders/ports"
)

const defaultEmbedMaxDescriptionChars = 4000

// TenderService handles tender business logic: CRUD, popularity,
// on-demand embedding, and content generation (collaborator surfaces the
// Matcher and Rule Scorer read from, never call directly).
type TenderService struct {
	repo      ports.TenderRepository
	embedder  ports.Embedder
	vectors   ports.TenderVectorUpserter
	extractor ports.ContentExtractor // optional; nil disables content generation
}

// NewTenderService creates a new tender service
func NewTenderService(repo ports.TenderRepository, embedder ports.Embedder, vectors ports.TenderVectorUpserter, extractor ports.ContentExtractor) *TenderService {
	return &TenderService{repo: repo, embedder: embedder, vectors: vectors, extractor: extractor}
}

// Create creates a new tender
func (s *TenderService) Create(ctx context.Context, req *model.CreateTenderRequest) (*model.TenderDTO, error) {
	if strings.TrimSpace(req.SourceURL) == "" {
		return nil, model.ErrTenderSourceURLRequired
	}
	if req.BudgetMin != nil && req.BudgetMax != nil && *req.BudgetMin > *req.BudgetMax {
		return nil, model.ErrInvalidBudgetRange
	}

	currency := req.Currency
	if currency == "" {
		currency = "ETB"
	}

	tender := &model.Tender{
		SourceURL:   strings.TrimSpace(req.SourceURL),
		Title:       req.Title,
		Description: req.Description,
		Category:    req.Category,
		Region:      req.Region,
		BudgetMin:   req.BudgetMin,
		BudgetMax:   req.BudgetMax,
		Currency:    currency,
		Language:    req.Language,
		Deadline:    req.Deadline,
		Highlights:  req.Highlights,
		Status:      model.StatusPublished,
	}
	now := time.Now().UTC()
	tender.PublishedAt = &now

	if err := s.repo.Create(ctx, tender); err != nil {
		return nil, err
	}

	if s.extractor != nil && strings.TrimSpace(tender.Description) != "" {
		// Best-effort: a failed or skipped request never blocks ingestion,
		// and the raw description remains usable until content is ready.
		_ = s.extractor.RequestExtraction(ctx, tender.ID, tender.Description)
	}

	return tender.ToDTO(), nil
}

// GetByID retrieves a tender by ID
func (s *TenderService) GetByID(ctx context.Context, tenderID string) (*model.TenderDTO, error) {
	tender, err := s.repo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}
	return tender.ToDTO(), nil
}

// List retrieves tenders under the candidate-generation hard filters
func (s *TenderService) List(ctx context.Context, filter ports.ListFilter) ([]*model.TenderDTO, int, error) {
	return s.repo.List(ctx, filter)
}

// Delete deletes a tender
func (s *TenderService) Delete(ctx context.Context, tenderID string) error {
	return s.repo.Delete(ctx, tenderID)
}

// Embed composes the tender's embedding text, calls the embedding
// client, and upserts the resulting vector into the vector store. This
// backs the explicit `POST /tenders/{id}/embed` refresh endpoint; the
// re-embed is always unconditional here, unlike the profile side's
// dirty-flag-gated implicit trigger.
func (s *TenderService) Embed(ctx context.Context, tenderID string) (*model.TenderDTO, error) {
	tender, err := s.repo.GetByID(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	text := strings.ToLower(strings.Join(strings.Fields(
		tender.CompositionText(defaultEmbedMaxDescriptionChars),
	), " "))

	vector, err := s.embedder.Embed(ctx, text)
	if err != nil {
		return nil, err
	}

	metadata := map[string]interface{}{
		"category": tender.Category,
		"region":   tender.Region,
		"deadline": tender.Deadline,
		"status":   tender.EffectiveStatus(),
		"language": tender.Language,
	}
	if tender.BudgetMax != nil {
		metadata["budget_amount"] = tender.BudgetMax
	}

	if err := s.vectors.UpsertTenderVector(ctx, tender.ID, vector, metadata); err != nil {
		return nil, err
	}

	embeddedAt := time.Now().UTC()
	if err := s.repo.SetEmbeddingUpdatedAt(ctx, tender.ID, embeddedAt); err != nil {
		return nil, err
	}
	tender.EmbeddingUpdatedAt = &embeddedAt

	return tender.ToDTO(), nil
}

// ContentStatus polls the background content-generation job for a
// tender and, once it resolves, persists the extracted fields so a
// ready/cached status is only ever applied once.
func (s *TenderService) ContentStatus(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error) {
	if s.extractor == nil {
		return "", model.ErrContentExtractionUnavailable
	}

	tender, err := s.repo.GetByID(ctx, tenderID)
	if err != nil {
		return "", err
	}

	status, err := s.extractor.ContentStatus(ctx, tender.ID)
	if err != nil {
		return "", err
	}

	if (status == ports.ContentReady || status == ports.ContentCached) && tender.CleanDescription == nil {
		if err := s.applyExtractedContent(ctx, tender); err != nil {
			return "", err
		}
	}
	return status, nil
}

func (s *TenderService) applyExtractedContent(ctx context.Context, tender *model.Tender) error {
	content, err := s.extractor.ContentResult(ctx, tender.ID)
	if err != nil {
		return err
	}

	cleanDescription := content.CleanDescription
	tender.CleanDescription = &cleanDescription
	if len(tender.Highlights) == 0 {
		tender.Highlights = content.Highlights
	}
	tender.Extracted = content.Extracted

	return s.repo.Update(ctx, tender)
}
