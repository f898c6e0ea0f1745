// Package extractor implements an LLM-backed adapter that derives
// clean_description/highlights/extracted_data from a tender's raw text,
// polled through a single {pending, ready, failed, cached} status
// endpoint instead of client-side effect polling.
package extractor

import "context"

// Status is the state of one tender's content-generation job.
type Status string

const (
	StatusPending Status = "pending"
	StatusReady   Status = "ready"
	StatusFailed  Status = "failed"
	StatusCached  Status = "cached"
)

// ExtractionResult mirrors modules/tenders/model.ExtractedData's shape
// without importing it. This package sits below modules/tenders in the
// dependency graph, so the module owns translating this into its own
// domain type.
type ExtractionResult struct {
	CleanDescription string            `json:"clean_description"`
	Highlights       []string          `json:"highlights"`
	Financial        map[string]string `json:"financial,omitempty"`
	Contact          map[string]string `json:"contact,omitempty"`
	Dates            map[string]string `json:"dates,omitempty"`
	Requirements     []string          `json:"requirements,omitempty"`
	Specifications   []string          `json:"specifications,omitempty"`
	Organization     string            `json:"organization,omitempty"`
	Addresses        []string          `json:"addresses,omitempty"`
	LanguageFlag     string            `json:"language_flag,omitempty"`
	TenderType       string            `json:"tender_type,omitempty"`
	Extra            map[string]string `json:"extra,omitempty"`
}

// Extractor requests and polls content generation for one tender.
// modules/tenders calls RequestExtraction when a tender is created
// without a pre-supplied clean_description, and exposes the resulting
// status via GET /tenders/{id}/content-status. Neither the Matcher nor
// the RuleScorer call this interface directly.
type Extractor interface {
	RequestExtraction(ctx context.Context, tenderID, rawText string) error
	Status(ctx context.Context, tenderID string) (Status, error)
	Result(ctx context.Context, tenderID string) (*ExtractionResult, error)
}
