package ports

import (
	"context"

	"github.com/teddycheru/tenderlens/modules/tenders/model"
)

// ContentExtractionStatus mirrors internal/platform/extractor.Status's
// values without importing that package; this module owns the
// translation boundary between the two.
type ContentExtractionStatus string

const (
	ContentPending ContentExtractionStatus = "pending"
	ContentReady   ContentExtractionStatus = "ready"
	ContentFailed  ContentExtractionStatus = "failed"
	ContentCached  ContentExtractionStatus = "cached"
)

// ExtractedContent is a resolved content-generation job translated into
// this module's own shape, decoupled from whatever wire format the
// backing extractor adapter uses.
type ExtractedContent struct {
	CleanDescription string
	Highlights       []string
	Extracted        *model.ExtractedData
}

// ContentExtractor requests and polls background content generation for
// a tender's raw text. Neither the Matcher nor the Rule Scorer call this
// interface, only modules/tenders does.
type ContentExtractor interface {
	RequestExtraction(ctx context.Context, tenderID, rawText string) error
	ContentStatus(ctx context.Context, tenderID string) (ContentExtractionStatus, error)
	ContentResult(ctx context.Context, tenderID string) (*ExtractedContent, error)
}
