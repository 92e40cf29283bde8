package llm

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/retry"
)

// Gemini is the alternative chat provider.
type Gemini struct {
	client  *genai.Client
	model   string
	limiter *rate.Limiter
	policy  retry.Policy
}

func NewGemini(ctx context.Context, apiKey, model string, httpClient *http.Client) (*Gemini, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return nil, fmt.Errorf("genai.NewClient: %w", err)
	}

	return &Gemini{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Inf, 0),
		policy:  retry.Once,
	}, nil
}

func (g *Gemini) WithRateLimit(requestsPerSecond float64) *Gemini {
	if requestsPerSecond > 0 {
		g.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return g
}

func (g *Gemini) WithRetry(p retry.Policy) *Gemini {
	g.policy = p
	return g
}

func (g *Gemini) Model() string {
	return g.model
}

func (g *Gemini) Complete(ctx context.Context, prompt value.Prompt) (string, error) {
	return g.generate(ctx, prompt, nil)
}

func (g *Gemini) CompleteJSON(ctx context.Context, prompt value.Prompt, schema *value.Schema, dest any) error {
	content, err := g.generate(ctx, prompt, schema)
	if err != nil {
		return err
	}

	return decodeStructured(content, dest)
}

func (g *Gemini) generate(ctx context.Context, prompt value.Prompt, schema *value.Schema) (string, error) {
	cfg := &genai.GenerateContentConfig{}

	if prompt.System != "" {
		cfg.SystemInstruction = &genai.Content{Parts: []*genai.Part{{Text: prompt.System}}}
	}

	if prompt.MaxTokens > 0 {
		cfg.MaxOutputTokens = int32(prompt.MaxTokens) //nolint:gosec // small values
	}

	if prompt.Seed != 0 {
		cfg.Seed = genai.Ptr(int32(prompt.Seed)) //nolint:gosec // small values
	}

	if schema != nil {
		cfg.ResponseMIMEType = "application/json"
		cfg.ResponseSchema = toGenaiSchema(schema)
	}

	// Gemini has no assistant prefill, so the prefix is appended to the user turn.
	text := prompt.User
	if prompt.Prefill != "" {
		text += "\n\n" + prompt.Prefill
	}

	contents := []*genai.Content{genai.NewContentFromText(text, genai.RoleUser)}

	return retry.DoValue(ctx, g.policy, "gemini generate", func() (string, error) {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", retry.Permanent(err)
		}

		resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, cfg)
		if err != nil {
			return "", classify(ctx, err, geminiStatus(err), "gemini generate")
		}

		out := resp.Text()
		if out == "" {
			return "", retry.Permanent(domain.NewError(errcodes.MalformedResponse, "gemini generate: empty reply"))
		}

		logger(ctx).Debug("gemini generate completed", slog.String(logx.FieldModel, g.model))

		return out, nil
	})
}

func geminiStatus(err error) int {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.Code
	}
	return 0
}

func toGenaiSchema(s *value.Schema) *genai.Schema {
	if s == nil {
		return nil
	}

	out := &genai.Schema{
		Type:        genaiType(s.Type),
		Description: s.Description,
		MinItems:    s.MinItems,
		MaxItems:    s.MaxItems,
		Items:       toGenaiSchema(s.Items),
	}

	if s.Type == value.TypeObject {
		names := s.PropertyNames()
		out.Properties = make(map[string]*genai.Schema, len(s.Properties))
		for _, name := range names {
			out.Properties[name] = toGenaiSchema(s.Properties[name])
		}
		out.Required = names
		out.PropertyOrdering = names
	}

	return out
}

func genaiType(t string) genai.Type {
	switch t {
	case value.TypeObject:
		return genai.TypeObject
	case value.TypeArray:
		return genai.TypeArray
	case value.TypeNumber:
		return genai.TypeNumber
	case value.TypeInteger:
		return genai.TypeInteger
	default:
		return genai.TypeString
	}
}
