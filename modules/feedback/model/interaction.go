package model

import "time"

// InteractionType enumerates the kinds of signal the Feedback Processor
// accepts.
type InteractionType string

const (
	InteractionView         InteractionType = "view"
	InteractionSave         InteractionType = "save"
	InteractionApply        InteractionType = "apply"
	InteractionDismiss      InteractionType = "dismiss"
	InteractionRatePositive InteractionType = "rate_positive"
	InteractionRateNegative InteractionType = "rate_negative"
)

// Weights are server-assigned, never client-supplied.
var interactionWeights = map[InteractionType]float64{
	InteractionView:         1,
	InteractionSave:         5,
	InteractionApply:        10,
	InteractionDismiss:      -5,
	InteractionRatePositive: 7,
	InteractionRateNegative: -7,
}

// positiveInteractions drive discovered_interests learning (step 3).
var positiveInteractions = map[InteractionType]bool{
	InteractionSave:         true,
	InteractionApply:        true,
	InteractionRatePositive: true,
}

func IsPositive(t InteractionType) bool { return positiveInteractions[t] }

func IsValidType(t InteractionType) bool {
	_, ok := interactionWeights[t]
	return ok
}

// Weight returns the server-assigned weight for the interaction. A view
// shorter than minViewSeconds carries zero weight.
func Weight(t InteractionType, timeSpentSeconds *int, minViewSeconds int) float64 {
	if t == InteractionView {
		if timeSpentSeconds == nil || *timeSpentSeconds < minViewSeconds {
			return 0
		}
	}
	return interactionWeights[t]
}

// Interaction is one immutable, append-only feedback event.
type Interaction struct {
	ID       string
	UserID   string
	TenderID string
	Type     InteractionType
	Weight   float64

	TimeSpentSeconds *int
	MatchScoreAtTime *float64
	FeedbackReason   *string

	TenderCategorySnapshot  string
	TenderRegionSnapshot    string
	TenderBudgetMinSnapshot *float64
	TenderBudgetMaxSnapshot *float64

	DedupBucket time.Time
	CreatedAt   time.Time
}

// RecordInteractionRequest is the POST /recommendations/feedback/{tender_id} body.
type RecordInteractionRequest struct {
	InteractionType  string   `json:"interaction_type" binding:"required"`
	FeedbackReason   *string  `json:"feedback_reason,omitempty"`
	TimeSpentSeconds *int     `json:"time_spent_seconds,omitempty"`
	MatchScoreAtTime *float64 `json:"match_score_at_time,omitempty"`
}

// RecordInteractionResult is the RecordInteraction response body.
type RecordInteractionResult struct {
	Success       bool   `json:"success"`
	InteractionID string `json:"interaction_id"`
	Message       string `json:"message"`
}

// InteractionStats answers GetUserInteractionStats.
type InteractionStats struct {
	CountsByType            map[string]int `json:"counts_by_type"`
	AverageTimeSpentSeconds float64        `json:"average_time_spent_seconds"`
}

// ReembedResult answers TriggerReembedIfDirty.
type ReembedResult struct {
	Reembedded bool `json:"reembedded"`
}
