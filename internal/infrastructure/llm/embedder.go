package llm

import (
	"context"
	"fmt"
	"time"

	"github.com/openai/openai-go/v3"
	"github.com/patrickmn/go-cache"
	"golang.org/x/time/rate"

	"deal_scout/internal/domain"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/retry"
)

const embeddingCacheCleanup = 10 * time.Minute

// Embedder turns texts into vectors with the OpenAI embeddings endpoint.
// Vectors are memoised by text so a description repeated across passes
// costs one call.
type Embedder struct {
	client  openai.Client
	model   string
	cache   *cache.Cache
	limiter *rate.Limiter
	policy  retry.Policy
}

func NewEmbedder(client openai.Client, model string, cacheTTL time.Duration) *Embedder {
	return &Embedder{
		client:  client,
		model:   model,
		cache:   cache.New(cacheTTL, embeddingCacheCleanup),
		limiter: rate.NewLimiter(rate.Inf, 0),
		policy:  retry.Once,
	}
}

func (e *Embedder) WithRateLimit(requestsPerSecond float64) *Embedder {
	if requestsPerSecond > 0 {
		e.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return e
}

func (e *Embedder) WithRetry(p retry.Policy) *Embedder {
	e.policy = p
	return e
}

func (e *Embedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))

	var (
		missing    []string
		missingIdx []int
	)

	for i, text := range texts {
		if v, ok := e.cache.Get(text); ok {
			out[i] = v.([]float32) //nolint:forcetypeassert // only vectors are stored
			continue
		}
		missing = append(missing, text)
		missingIdx = append(missingIdx, i)
	}

	if len(missing) == 0 {
		return out, nil
	}

	vectors, err := retry.DoValue(ctx, e.policy, "openai embeddings", func() ([][]float32, error) {
		return e.request(ctx, missing)
	})
	if err != nil {
		return nil, err
	}

	for j, v := range vectors {
		out[missingIdx[j]] = v
		e.cache.SetDefault(missing[j], v)
	}

	return out, nil
}

func (e *Embedder) request(ctx context.Context, texts []string) ([][]float32, error) {
	if err := e.limiter.Wait(ctx); err != nil {
		return nil, retry.Permanent(err)
	}

	resp, err := e.client.Embeddings.New(ctx, openai.EmbeddingNewParams{
		Input: openai.EmbeddingNewParamsInputUnion{OfArrayOfStrings: texts},
		Model: openai.EmbeddingModel(e.model),
	})
	if err != nil {
		return nil, classify(ctx, err, openAIStatus(err), "openai embeddings")
	}

	if len(resp.Data) != len(texts) {
		return nil, retry.Permanent(domain.NewError(errcodes.MalformedResponse,
			fmt.Sprintf("openai embeddings: %d vectors for %d texts", len(resp.Data), len(texts))))
	}

	vectors := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || int(d.Index) >= len(texts) {
			return nil, retry.Permanent(domain.NewError(errcodes.MalformedResponse, "openai embeddings: index out of range"))
		}

		v := make([]float32, len(d.Embedding))
		for i, f := range d.Embedding {
			v[i] = float32(f)
		}
		vectors[d.Index] = v
	}

	return vectors, nil
}
