package llm

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"golang.org/x/time/rate"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/retry"
)

// NewOpenAIClient builds a client for the OpenAI API or any compatible
// endpoint when baseURL is set. Retries are done by the callers.
func NewOpenAIClient(apiKey, baseURL string, httpClient *http.Client) openai.Client {
	opts := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}

	if baseURL != "" {
		opts = append(opts, option.WithBaseURL(baseURL))
	}

	if httpClient != nil {
		opts = append(opts, option.WithHTTPClient(httpClient))
	}

	return openai.NewClient(opts...)
}

// OpenAI implements chat completions with optional structured output.
type OpenAI struct {
	client  openai.Client
	model   string
	limiter *rate.Limiter
	policy  retry.Policy
}

func NewOpenAI(client openai.Client, model string) *OpenAI {
	return &OpenAI{
		client:  client,
		model:   model,
		limiter: rate.NewLimiter(rate.Inf, 0),
		policy:  retry.Once,
	}
}

func (c *OpenAI) WithRateLimit(requestsPerSecond float64) *OpenAI {
	if requestsPerSecond > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return c
}

func (c *OpenAI) WithRetry(p retry.Policy) *OpenAI {
	c.policy = p
	return c
}

func (c *OpenAI) Model() string {
	return c.model
}

func (c *OpenAI) Complete(ctx context.Context, prompt value.Prompt) (string, error) {
	return c.chat(ctx, prompt, nil)
}

func (c *OpenAI) CompleteJSON(ctx context.Context, prompt value.Prompt, schema *value.Schema, dest any) error {
	content, err := c.chat(ctx, prompt, schema)
	if err != nil {
		return err
	}

	return decodeStructured(content, dest)
}

func (c *OpenAI) chat(ctx context.Context, prompt value.Prompt, schema *value.Schema) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(c.model),
		Messages: chatMessages(prompt),
	}

	if prompt.MaxTokens > 0 {
		params.MaxTokens = openai.Int(prompt.MaxTokens)
	}

	if prompt.Seed != 0 {
		params.Seed = openai.Int(prompt.Seed)
	}

	if schema != nil {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{
				JSONSchema: openai.ResponseFormatJSONSchemaJSONSchemaParam{
					Name:        schema.Name,
					Description: openai.String(schema.Description),
					Schema:      schema.JSON(),
					Strict:      openai.Bool(true),
				},
			},
		}
	}

	return retry.DoValue(ctx, c.policy, "openai chat", func() (string, error) {
		if err := c.limiter.Wait(ctx); err != nil {
			return "", retry.Permanent(err)
		}

		resp, err := c.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return "", classify(ctx, err, openAIStatus(err), "openai chat")
		}

		if len(resp.Choices) == 0 {
			return "", retry.Permanent(domain.NewError(errcodes.MalformedResponse, "openai chat: no choices"))
		}

		msg := resp.Choices[0].Message
		if msg.Refusal != "" {
			return "", retry.Permanent(domain.NewError(errcodes.MalformedResponse, "openai chat: refused: "+msg.Refusal))
		}

		logger(ctx).Debug("openai chat completed",
			slog.String(logx.FieldModel, c.model),
			slog.Int64("prompt_tokens", resp.Usage.PromptTokens),
			slog.Int64("completion_tokens", resp.Usage.CompletionTokens),
		)

		return msg.Content, nil
	})
}

func chatMessages(prompt value.Prompt) []openai.ChatCompletionMessageParamUnion {
	messages := make([]openai.ChatCompletionMessageParamUnion, 0, 3) //nolint:mnd // system, user, prefill

	if prompt.System != "" {
		messages = append(messages, openai.SystemMessage(prompt.System))
	}

	messages = append(messages, openai.UserMessage(prompt.User))

	if prompt.Prefill != "" {
		messages = append(messages, openai.AssistantMessage(prompt.Prefill))
	}

	return messages
}

func openAIStatus(err error) int {
	var apiErr *openai.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}
