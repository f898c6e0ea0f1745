package model

import (
	"strings"
	"time"
)

// Status values a tender can hold. A published tender whose deadline has
// passed is treated as closed on read.
const (
	StatusPublished = "published"
	StatusClosed    = "closed"
	StatusDraft     = "draft"
	StatusCancelled = "cancelled"
)

// ExtractedData holds the structured fields the content extractor
// derives from a tender's free text. Unknown keys surfaced by the
// extractor are preserved in Extra but never scored.
type ExtractedData struct {
	Financial      map[string]string `json:"financial,omitempty"`
	Contact        map[string]string `json:"contact,omitempty"`
	Dates          map[string]string `json:"dates,omitempty"`
	Requirements   []string          `json:"requirements,omitempty"`
	Specifications []string          `json:"specifications,omitempty"`
	Organization   string            `json:"organization,omitempty"`
	Addresses      []string          `json:"addresses,omitempty"`
	LanguageFlag   string            `json:"language_flag,omitempty"`
	TenderType     string            `json:"tender_type,omitempty"`
	Extra          map[string]string `json:"extra,omitempty"`
}

// Tender represents a published procurement opportunity.
type Tender struct {
	ID               string
	SourceURL        string
	Title            string
	Description      string
	CleanDescription *string
	Summary          *string
	Highlights       []string

	Category    string
	Region      string
	BudgetMin   *float64
	BudgetMax   *float64
	Currency    string
	Language    string
	Deadline    *time.Time
	Status      string
	PublishedAt *time.Time

	Extracted *ExtractedData

	EmbeddingUpdatedAt *time.Time

	ViewCount       int
	SaveCount       int
	ApplyCount      int
	DismissCount    int
	PopularityScore float64

	CreatedAt time.Time
	UpdatedAt time.Time
}

// EffectiveStatus returns the read-time status: a published tender past
// its deadline reads as closed without mutating the stored row.
func (t *Tender) EffectiveStatus() string {
	if t.Status == StatusPublished && t.Deadline != nil && t.Deadline.Before(time.Now().UTC()) {
		return StatusClosed
	}
	return t.Status
}

// DaysUntilDeadline returns the whole days remaining, or nil if the
// tender has no deadline.
func (t *Tender) DaysUntilDeadline() *int {
	if t.Deadline == nil {
		return nil
	}
	days := int(time.Until(*t.Deadline).Hours() / 24)
	return &days
}

// CompositionText builds the deterministic embedding-input text: title,
// cleaned (or raw) description, highlights, organization, category,
// region, newline-joined, preferring the cleaned description when one
// exists.
func (t *Tender) CompositionText(maxDescriptionChars int) string {
	description := t.Description
	if t.CleanDescription != nil && *t.CleanDescription != "" {
		description = *t.CleanDescription
	} else if len(description) > maxDescriptionChars {
		description = description[:maxDescriptionChars]
	}

	org := ""
	if t.Extracted != nil {
		org = t.Extracted.Organization
	}

	lines := []string{t.Title, description}
	if len(t.Highlights) > 0 {
		lines = append(lines, strings.Join(t.Highlights, " "))
	}
	lines = append(lines, org, t.Category, t.Region)

	nonEmpty := make([]string, 0, len(lines))
	for _, line := range lines {
		if line != "" {
			nonEmpty = append(nonEmpty, line)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

// TenderDTO is the wire representation of a tender.
type TenderDTO struct {
	ID               string     `json:"id"`
	SourceURL        string     `json:"source_url"`
	Title            string     `json:"title"`
	Description      string     `json:"description"`
	CleanDescription *string    `json:"clean_description,omitempty"`
	Summary          *string    `json:"summary,omitempty"`
	Highlights       []string   `json:"highlights,omitempty"`
	Category         string     `json:"category"`
	Region           string     `json:"region"`
	BudgetMin        *float64   `json:"budget_min,omitempty"`
	BudgetMax        *float64   `json:"budget_max,omitempty"`
	Currency         string     `json:"currency,omitempty"`
	Language         string     `json:"language,omitempty"`
	Deadline         *time.Time `json:"deadline,omitempty"`
	Status           string     `json:"status"`
	PublishedAt      *time.Time `json:"published_at,omitempty"`
	PopularityScore  float64    `json:"popularity_score"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`
}

// ToDTO converts a Tender to its wire representation, resolving the
// read-time effective status.
func (t *Tender) ToDTO() *TenderDTO {
	return &TenderDTO{
		ID:               t.ID,
		SourceURL:        t.SourceURL,
		Title:            t.Title,
		Description:      t.Description,
		CleanDescription: t.CleanDescription,
		Summary:          t.Summary,
		Highlights:       t.Highlights,
		Category:         t.Category,
		Region:           t.Region,
		BudgetMin:        t.BudgetMin,
		BudgetMax:        t.BudgetMax,
		Currency:         t.Currency,
		Language:         t.Language,
		Deadline:         t.Deadline,
		Status:           t.EffectiveStatus(),
		PublishedAt:      t.PublishedAt,
		PopularityScore:  t.PopularityScore,
		CreatedAt:        t.CreatedAt,
		UpdatedAt:        t.UpdatedAt,
	}
}

// CreateTenderRequest is the payload accepted by the tender-ingestion
// collaborator surface.
type CreateTenderRequest struct {
	SourceURL   string     `json:"source_url" binding:"required"`
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description" binding:"required"`
	Category    string     `json:"category" binding:"required"`
	Region      string     `json:"region" binding:"required"`
	BudgetMin   *float64   `json:"budget_min"`
	BudgetMax   *float64   `json:"budget_max"`
	Currency    string     `json:"currency"`
	Language    string     `json:"language"`
	Deadline    *time.Time `json:"deadline"`
	Highlights  []string   `json:"highlights"`
}
