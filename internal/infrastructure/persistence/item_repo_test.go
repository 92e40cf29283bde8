package persistence_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/entity"
	"deal_scout/internal/infrastructure/persistence"
	"deal_scout/pkg/dbtest"
)

type embedderStub struct {
	vectors map[string][]float32
}

func (e embedderStub) Embed(_ context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, 0, len(texts))
	for _, text := range texts {
		out = append(out, e.vectors[text])
	}
	return out, nil
}

func axis(i int) []float32 {
	v := make([]float32, 1536)
	v[i] = 1
	return v
}

func TestItemRepositoryNearest(t *testing.T) {
	db := dbtest.Connect(t, "PG_TEST_DSN")

	rq := require.New(t)
	ctx := context.Background()

	rq.NoError(dbtest.MigrateFromFile(ctx, db, "../../../migrations/001_items.sql"))
	rq.NoError(dbtest.Truncate(ctx, db, "items"))

	repo := persistence.NewItemRepository(db)

	items := []entity.Item{
		{Description: "USB-C charger 65W", Price: 39, Category: "Electronics"},
		{Description: "Mechanical keyboard", Price: 120, Category: "Computers"},
		{Description: "4K monitor", Price: 330, Category: "Computers"},
	}
	rq.NoError(repo.Upsert(ctx, items, [][]float32{axis(0), axis(1), axis(2)}))

	n, err := repo.Count(ctx)
	rq.NoError(err)
	rq.Equal(3, n)

	index := persistence.NewSimilarityIndex(embedderStub{vectors: map[string][]float32{
		"keyboard": axis(1),
	}}, repo)

	docs, prices, err := index.FindSimilar(ctx, "keyboard", 2)
	rq.NoError(err)
	rq.Len(docs, 2)
	rq.Equal("Mechanical keyboard", docs[0])
	rq.InDelta(120, prices[0], 1e-9)
}
