package service

import (
	"context"

	"github.com/teddycheru/tenderlens/internal/platform/extractor"
	"github.com/teddycheru/tenderlens/modules/tenders/model"
	"github.com/teddycheru/tenderlens/modules/tenders/ports"
)

// ContentExtractorAdapter wraps a platform-level extractor.Extractor and
// translates its result into ports.ExtractedContent, so the rest of this
// module never imports internal/platform/extractor directly.
type ContentExtractorAdapter struct {
	extractor extractor.Extractor
}

func NewContentExtractorAdapter(e extractor.Extractor) *ContentExtractorAdapter {
	return &ContentExtractorAdapter{extractor: e}
}

func (a *ContentExtractorAdapter) RequestExtraction(ctx context.Context, tenderID, rawText string) error {
	return a.extractor.RequestExtraction(ctx, tenderID, rawText)
}

func (a *ContentExtractorAdapter) ContentStatus(ctx context.Context, tenderID string) (ports.ContentExtractionStatus, error) {
	status, err := a.extractor.Status(ctx, tenderID)
	if err != nil {
		return "", err
	}
	return ports.ContentExtractionStatus(status), nil
}

func (a *ContentExtractorAdapter) ContentResult(ctx context.Context, tenderID string) (*ports.ExtractedContent, error) {
	result, err := a.extractor.Result(ctx, tenderID)
	if err != nil {
		return nil, err
	}

	return &ports.ExtractedContent{
		CleanDescription: result.CleanDescription,
		Highlights:       result.Highlights,
		Extracted: &model.ExtractedData{
			Financial:      result.Financial,
			Contact:        result.Contact,
			Dates:          result.Dates,
			Requirements:   result.Requirements,
			Specifications: result.Specifications,
			Organization:   result.Organization,
			Addresses:      result.Addresses,
			LanguageFlag:   result.LanguageFlag,
			TenderType:     result.TenderType,
			Extra:          result.Extra,
		},
	}, nil
}
