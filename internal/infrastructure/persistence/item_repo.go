package persistence

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pgvector/pgvector-go"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/lox"
)

// ItemRepository stores historical priced items with their embeddings in
// postgres (pgvector).
type ItemRepository struct {
	db *sqlx.DB
}

func NewItemRepository(db *sqlx.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

// Nearest returns up to k items ordered by cosine distance to vector.
func (r *ItemRepository) Nearest(ctx context.Context, vector []float32, k int) ([]entity.Item, error) {
	const query = `
		SELECT id, description, price, category, 1 - (embedding <=> $1) AS similarity
		FROM items
		ORDER BY embedding <=> $1
		LIMIT $2`

	var rows []itemSchema
	if err := r.db.SelectContext(ctx, &rows, query, pgvector.NewVector(vector), k); err != nil {
		return nil, domain.WrapError(fmt.Errorf("db.SelectContext: %w", err), errcodes.IndexUnavailable, "query items")
	}

	return lox.Map(rows, itemSchema.toDomain), nil
}

// Upsert writes items and their vectors; an existing description is replaced.
func (r *ItemRepository) Upsert(ctx context.Context, items []entity.Item, vectors [][]float32) error {
	if len(items) != len(vectors) {
		return domain.NewError(errcodes.ValidationError, fmt.Sprintf("items and vectors differ: %d != %d", len(items), len(vectors)))
	}

	const query = `
		INSERT INTO items (description, price, category, embedding)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (description) DO UPDATE
		SET price = EXCLUDED.price, category = EXCLUDED.category, embedding = EXCLUDED.embedding`

	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		for i, item := range items {
			_, err := tx.ExecContext(ctx, query, item.Description, item.Price, item.Category, pgvector.NewVector(vectors[i]))
			if err != nil {
				return fmt.Errorf("tx.ExecContext: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(err, errcodes.IndexUnavailable, "upsert items")
	}

	return nil
}

func (r *ItemRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.GetContext(ctx, &n, `SELECT count(*) FROM items`); err != nil {
		return 0, domain.WrapError(fmt.Errorf("db.GetContext: %w", err), errcodes.IndexUnavailable, "count items")
	}
	return n, nil
}
