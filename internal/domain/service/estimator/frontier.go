package estimator

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
)

const (
	defaultNeighbours = 5
	priceSeed         = 42
	priceMaxTokens    = 5
	pricePrefill      = "Price is $"

	frontierSystemPrompt = "You estimate the prices of items. Reply only with the price, no explanation."
)

type SimilarityIndex interface {
	FindSimilar(ctx context.Context, description string, k int) ([]string, []float64, error)
}

type TextCompleter interface {
	Complete(ctx context.Context, prompt value.Prompt) (string, error)
}

// Frontier asks a language model for a price, giving it the nearest priced
// items from the index as context.
type Frontier struct {
	index      SimilarityIndex
	llm        TextCompleter
	neighbours int
}

func NewFrontier(index SimilarityIndex, llm TextCompleter) *Frontier {
	return &Frontier{
		index:      index,
		llm:        llm,
		neighbours: defaultNeighbours,
	}
}

func (f *Frontier) WithNeighbours(k int) *Frontier {
	if k > 0 {
		f.neighbours = k
	}
	return f
}

func (*Frontier) Name() string {
	return NameFrontier
}

// Estimate never fails because of the model: when the completion call fails the
// median of the neighbour prices is returned instead.
func (f *Frontier) Estimate(ctx context.Context, description string) (float64, error) {
	documents, prices, err := f.index.FindSimilar(ctx, description, f.neighbours)
	if err != nil {
		return 0, domain.WrapError(err, errcodes.IndexUnavailable, "find similar items")
	}

	reply, err := f.llm.Complete(ctx, f.prompt(description, documents, prices))
	if err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("llm.Complete: %w", ctx.Err())
		}

		fallback := Median(prices)
		estimatorFallbacks.WithLabelValues(NameFrontier).Inc()
		logger(ctx).Warn(
			"frontier model failed, using neighbour median",
			slog.Float64("median", fallback),
			slog.Int("neighbours", len(prices)),
			logx.Error(err),
		)

		return fallback, nil
	}

	price, ok := value.ExtractFirstNumber(reply)
	if !ok {
		logger(ctx).Warn("no price in frontier reply", slog.String("reply", reply))
		return 0, nil
	}

	return price, nil
}

func (f *Frontier) prompt(description string, documents []string, prices []float64) value.Prompt {
	var b strings.Builder

	b.WriteString("Here are some comparable items with known prices.\n\n")

	for i, doc := range documents {
		if i >= len(prices) {
			break
		}
		fmt.Fprintf(&b, "Potentially related product:\n%s\nPrice is $%.2f\n\n", doc, prices[i])
	}

	b.WriteString("Given these comparable priced items, estimate the price of the following item. ")
	b.WriteString("Reply with the price only.\n\n")
	b.WriteString(description)

	return value.Prompt{
		System:    frontierSystemPrompt,
		User:      b.String(),
		Prefill:   pricePrefill,
		MaxTokens: priceMaxTokens,
		Seed:      priceSeed,
	}
}

// Median returns the median of values or 0 when there are none.
func Median(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mid := len(sorted) / 2 //nolint:mnd
	if len(sorted)%2 == 1 {
		return sorted[mid]
	}

	return (sorted[mid-1] + sorted[mid]) / 2 //nolint:mnd
}
