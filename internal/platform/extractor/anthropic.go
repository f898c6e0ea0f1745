package extractor

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	goredis "github.com/redis/go-redis/v9"

	internalredis "github.com/teddycheru/tenderlens/internal/platform/redis"
)

const (
	defaultModel     = anthropic.ModelClaude3_5HaikuLatest
	defaultStatusTTL = 24 * time.Hour
	maxTokens        = 2048
)

// AnthropicExtractor backs Extractor with an anthropic-sdk-go client.
// Status and the raw result are tracked in Redis keyed by tender id so
// the status endpoint never re-invokes the model once a result exists.
type AnthropicExtractor struct {
	client    anthropic.Client
	redis     *internalredis.Client
	model     anthropic.Model
	statusTTL time.Duration
}

func NewAnthropicExtractor(apiKey string, redisClient *internalredis.Client) *AnthropicExtractor {
	return &AnthropicExtractor{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		redis:     redisClient,
		model:     defaultModel,
		statusTTL: defaultStatusTTL,
	}
}

func statusKey(tenderID string) string { return "extractor:status:" + tenderID }
func resultKey(tenderID string) string { return "extractor:result:" + tenderID }

// RequestExtraction marks the job pending and runs the model call on a
// detached context so the request that triggered it is not held open
// while the background extraction runs.
func (e *AnthropicExtractor) RequestExtraction(ctx context.Context, tenderID, rawText string) error {
	if err := e.redis.Set(ctx, statusKey(tenderID), string(StatusPending), e.statusTTL).Err(); err != nil {
		return err
	}
	go e.run(context.WithoutCancel(ctx), tenderID, rawText)
	return nil
}

func (e *AnthropicExtractor) run(ctx context.Context, tenderID, rawText string) {
	result, err := e.invoke(ctx, rawText)
	if err != nil {
		_ = e.redis.Set(ctx, statusKey(tenderID), string(StatusFailed), e.statusTTL).Err()
		return
	}

	payload, err := json.Marshal(result)
	if err != nil {
		_ = e.redis.Set(ctx, statusKey(tenderID), string(StatusFailed), e.statusTTL).Err()
		return
	}

	_ = e.redis.Set(ctx, resultKey(tenderID), payload, e.statusTTL).Err()
	_ = e.redis.Set(ctx, statusKey(tenderID), string(StatusReady), e.statusTTL).Err()
}

func (e *AnthropicExtractor) invoke(ctx context.Context, rawText string) (*ExtractionResult, error) {
	message, err := e.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     e.model,
		MaxTokens: maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(extractionPrompt(rawText))),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}
	if len(message.Content) == 0 {
		return nil, fmt.Errorf("%w: empty response", ErrUpstreamUnavailable)
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(message.Content[0].Text), &result); err != nil {
		return nil, fmt.Errorf("%w: malformed extraction payload: %v", ErrUpstreamUnavailable, err)
	}
	return &result, nil
}

// Status reports the job's current state, transitioning a ready job to
// cached on the first poll that observes it so subsequent polls never
// trigger a re-invocation of the model.
func (e *AnthropicExtractor) Status(ctx context.Context, tenderID string) (Status, error) {
	raw, err := e.redis.Get(ctx, statusKey(tenderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}

	status := Status(raw)
	if status == StatusReady {
		_ = e.redis.Set(ctx, statusKey(tenderID), string(StatusCached), e.statusTTL).Err()
	}
	return status, nil
}

func (e *AnthropicExtractor) Result(ctx context.Context, tenderID string) (*ExtractionResult, error) {
	raw, err := e.redis.Get(ctx, resultKey(tenderID)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	var result ExtractionResult
	if err := json.Unmarshal([]byte(raw), &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func extractionPrompt(rawText string) string {
	return "Extract structured procurement-tender data from the text below. " +
		"Respond with ONLY a JSON object with these keys: clean_description (string), " +
		"highlights (array of short strings), financial (object of string to string), " +
		"contact (object of string to string), dates (object of string to string), " +
		"requirements (array of strings), specifications (array of strings), " +
		"organization (string), addresses (array of strings), language_flag (string), " +
		"tender_type (string), extra (object of string to string for anything else notable).\n\n" +
		"TEXT:\n" + rawText
}
