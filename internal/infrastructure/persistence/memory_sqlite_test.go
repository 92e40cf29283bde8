package persistence_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/infrastructure/persistence"
)

func opportunity(url string, price, estimate float64) entity.Opportunity {
	return entity.Opportunity{
		Deal:     entity.Deal{Description: "deal " + url, Price: price, URL: url},
		Estimate: estimate,
		Discount: estimate - price,
	}
}

func TestSQLiteMemoryStore(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	store, err := persistence.NewSQLiteMemoryStore(ctx, filepath.Join(t.TempDir(), "memory.db"))
	rq.NoError(err)
	t.Cleanup(func() { _ = store.Close() })

	got, err := store.Load(ctx)
	rq.NoError(err)
	rq.Empty(got)

	first := []entity.Opportunity{
		opportunity("https://example.com/1", 100, 400),
		opportunity("https://example.com/2", 50, 300),
	}
	rq.NoError(store.Save(ctx, first))

	// A second writer that only saw the first entry appends its own find.
	second := []entity.Opportunity{
		opportunity("https://example.com/1", 100, 400),
		opportunity("https://example.com/3", 10, 260),
	}
	rq.NoError(store.Save(ctx, second))

	got, err = store.Load(ctx)
	rq.NoError(err)
	rq.Equal([]entity.Opportunity{
		opportunity("https://example.com/1", 100, 400),
		opportunity("https://example.com/2", 50, 300),
		opportunity("https://example.com/3", 10, 260),
	}, got)
}
