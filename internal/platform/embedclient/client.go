// Package embedclient implements a cached adapter over an
// external embedding model, called with already-composed text.
// Composition itself lives on the domain models, e.g.
// Tender.CompositionText and CompanyProfile.CompositionText.
package embedclient

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"github.com/teddycheru/tenderlens/internal/config"
)

// Client calls a Bedrock Titan-style embedding model and normalizes/caches
// the result. It satisfies modules/tenders/ports.Embedder and the
// analogous profile-side port without either module importing AWS types.
type Client struct {
	bedrock   *bedrockruntime.Client
	cache     Cache
	modelID   string
	dimension int
	maxChars  int
}

// Cache is the content-addressed lookup the embedding client consults
// before calling the remote model.
type Cache interface {
	Get(ctx context.Context, key string) ([]float32, bool, error)
	Set(ctx context.Context, key string, vector []float32) error
}

// New constructs a Client from config, using a custom endpoint resolver
// when one is configured (local/self-hosted Bedrock-compatible gateways),
// following the same static-credentials idiom the rest of this codebase
// uses for AWS service clients.
func New(cfg config.EmbeddingConfig, cache Cache) (*Client, error) {
	if cfg.ModelID == "" {
		return nil, fmt.Errorf("embedding: model id is required")
	}

	awsConfig := aws.Config{
		Region: cfg.Region,
	}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		awsConfig.Credentials = credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, "")
	}

	opts := []func(*bedrockruntime.Options){}
	if cfg.Endpoint != "" {
		opts = append(opts, func(o *bedrockruntime.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
		})
	}

	return &Client{
		bedrock:   bedrockruntime.NewFromConfig(awsConfig, opts...),
		cache:     cache,
		modelID:   cfg.ModelID,
		dimension: cfg.Dimension,
		maxChars:  cfg.MaxTextChars,
	}, nil
}

type titanEmbedRequest struct {
	InputText  string `json:"inputText"`
	Dimensions int    `json:"dimensions,omitempty"`
	Normalize  bool   `json:"normalize"`
}

type titanEmbedResponse struct {
	Embedding           []float32 `json:"embedding"`
	InputTextTokenCount int       `json:"inputTextTokenCount"`
}

// Embed converts one piece of already-composed text into a vector of
// the configured dimension D, L2-normalized, consulting the cache first.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	normalized := normalizeText(text)
	if normalized == "" {
		return nil, ErrInputInvalid
	}
	if c.maxChars > 0 && len(normalized) > c.maxChars {
		return nil, fmt.Errorf("%w: text exceeds %d characters", ErrInputInvalid, c.maxChars)
	}

	key := cacheKey(c.modelID, normalized)
	if c.cache != nil {
		if vector, hit, err := c.cache.Get(ctx, key); err == nil && hit {
			return vector, nil
		}
	}

	payload, err := json.Marshal(titanEmbedRequest{
		InputText:  normalized,
		Dimensions: c.dimension,
		Normalize:  true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInputInvalid, err)
	}

	out, err := c.bedrock.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(c.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        payload,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	var resp titanEmbedResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamUnavailable, err)
	}

	vector := l2Normalize(resp.Embedding)
	if c.cache != nil {
		_ = c.cache.Set(ctx, key, vector)
	}
	return vector, nil
}

// EmbedBatch embeds each text independently, reporting per-index
// failures without aborting the remaining items.
func (c *Client) EmbedBatch(ctx context.Context, texts []string) ([][]float32, []error) {
	vectors := make([][]float32, len(texts))
	errs := make([]error, len(texts))

	for i, text := range texts {
		vector, err := c.Embed(ctx, text)
		if err != nil {
			errs[i] = &BatchError{Index: i, Err: err}
			continue
		}
		vectors[i] = vector
	}
	return vectors, errs
}

func normalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}

func l2Normalize(vector []float32) []float32 {
	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	norm := math.Sqrt(sumSquares)
	if norm == 0 {
		return vector
	}

	normalized := make([]float32, len(vector))
	for i, v := range vector {
		normalized[i] = float32(float64(v) / norm)
	}
	return normalized
}
