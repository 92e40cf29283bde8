package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/errcodes"
)

type Embedder interface {
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

type ItemFinder interface {
	Nearest(ctx context.Context, vector []float32, k int) ([]entity.Item, error)
}

// SimilarityIndex embeds a description and looks up the closest priced items.
type SimilarityIndex struct {
	embedder Embedder
	items    ItemFinder
}

func NewSimilarityIndex(embedder Embedder, items ItemFinder) *SimilarityIndex {
	return &SimilarityIndex{
		embedder: embedder,
		items:    items,
	}
}

func (i *SimilarityIndex) FindSimilar(ctx context.Context, description string, k int) ([]string, []float64, error) {
	vectors, err := i.embedder.Embed(ctx, []string{description})
	if err != nil {
		return nil, nil, domain.WrapError(fmt.Errorf("embedder.Embed: %w", err), errcodes.IndexUnavailable, "embed description")
	}
	if len(vectors) != 1 {
		return nil, nil, domain.NewError(errcodes.IndexUnavailable, fmt.Sprintf("expected 1 vector, got %d", len(vectors)))
	}

	items, err := i.items.Nearest(ctx, vectors[0], k)
	if err != nil {
		return nil, nil, err
	}

	docs := make([]string, 0, len(items))
	prices := make([]float64, 0, len(items))

	for _, item := range items {
		docs = append(docs, item.Description)
		prices = append(prices, item.Price)
	}

	if len(items) > 0 {
		logger(ctx).Debug("similar items found",
			slog.Int("count", len(items)),
			slog.Float64("top_similarity", items[0].Similarity),
		)
	} else {
		logger(ctx).Warn("similarity index returned no items")
	}

	return docs, prices, nil
}
