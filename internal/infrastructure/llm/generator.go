package llm

import (
	"context"
	"log/slog"

	"github.com/openai/openai-go/v3"

	"deal_scout/internal/domain"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/retry"
)

const (
	defaultGeneratorSeed      = 42
	defaultGeneratorMaxTokens = 5
)

// Generator calls a raw text completion endpoint. It serves the fine-tuned
// pricing model, which is hosted behind an OpenAI compatible API.
type Generator struct {
	client    openai.Client
	model     string
	seed      int64
	maxTokens int64
	policy    retry.Policy
}

func NewGenerator(client openai.Client, model string) *Generator {
	return &Generator{
		client:    client,
		model:     model,
		seed:      defaultGeneratorSeed,
		maxTokens: defaultGeneratorMaxTokens,
		policy:    retry.Once,
	}
}

func (g *Generator) WithSeed(seed int64) *Generator {
	g.seed = seed
	return g
}

func (g *Generator) WithMaxTokens(n int64) *Generator {
	if n > 0 {
		g.maxTokens = n
	}
	return g
}

func (g *Generator) WithRetry(p retry.Policy) *Generator {
	g.policy = p
	return g
}

func (g *Generator) Generate(ctx context.Context, prompt string) (string, error) {
	params := openai.CompletionNewParams{
		Model:       openai.CompletionNewParamsModel(g.model),
		Prompt:      openai.CompletionNewParamsPromptUnion{OfString: openai.String(prompt)},
		MaxTokens:   openai.Int(g.maxTokens),
		Seed:        openai.Int(g.seed),
		Temperature: openai.Float(0),
	}

	return retry.DoValue(ctx, g.policy, "specialist completion", func() (string, error) {
		resp, err := g.client.Completions.New(ctx, params)
		if err != nil {
			return "", classify(ctx, err, openAIStatus(err), "specialist completion")
		}

		if len(resp.Choices) == 0 {
			return "", retry.Permanent(domain.NewError(errcodes.MalformedResponse, "specialist completion: no choices"))
		}

		logger(ctx).Debug("specialist completion done", slog.String(logx.FieldModel, g.model))

		return resp.Choices[0].Text, nil
	})
}
