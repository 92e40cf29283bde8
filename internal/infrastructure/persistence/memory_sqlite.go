package persistence

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // sqlite driver

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/lox"
)

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS opportunities (
    seq         INTEGER PRIMARY KEY AUTOINCREMENT,
    url         TEXT    NOT NULL UNIQUE,
    description TEXT    NOT NULL,
    price       REAL    NOT NULL,
    estimate    REAL    NOT NULL,
    discount    REAL    NOT NULL,
    created_at  TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// SQLiteMemoryStore keeps the memory in an append-only table. Save inserts
// only URLs that are not stored yet, so two concurrent passes never drop each
// other's opportunities.
type SQLiteMemoryStore struct {
	db *sqlx.DB
}

func NewSQLiteMemoryStore(ctx context.Context, path string) (*SQLiteMemoryStore, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)", path)

	db, err := sqlx.ConnectContext(ctx, "sqlite", dsn)
	if err != nil {
		return nil, domain.WrapError(fmt.Errorf("sqlx.ConnectContext: %w", err), errcodes.PersistenceFailed, "open memory db")
	}

	db.SetMaxOpenConns(1)

	if _, err = db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, domain.WrapError(fmt.Errorf("db.ExecContext: %w", err), errcodes.PersistenceFailed, "create memory schema")
	}

	return &SQLiteMemoryStore{db: db}, nil
}

func (s *SQLiteMemoryStore) Load(ctx context.Context) ([]entity.Opportunity, error) {
	const query = `SELECT url, description, price, estimate, discount FROM opportunities ORDER BY seq`

	var rows []opportunityRow
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.WrapError(fmt.Errorf("db.SelectContext: %w", err), errcodes.PersistenceFailed, "load memory")
	}

	return lox.Map(rows, opportunityRow.toDomain), nil
}

func (s *SQLiteMemoryStore) Save(ctx context.Context, opportunities []entity.Opportunity) error {
	const query = `
		INSERT INTO opportunities (url, description, price, estimate, discount)
		VALUES (:url, :description, :price, :estimate, :discount)
		ON CONFLICT (url) DO NOTHING`

	var inserted int64

	err := withTx(ctx, s.db, func(tx *sqlx.Tx) error {
		for _, o := range opportunities {
			res, err := tx.NamedExecContext(ctx, query, fromOpportunityRow(o))
			if err != nil {
				return fmt.Errorf("tx.NamedExecContext: %w", err)
			}

			n, err := res.RowsAffected()
			if err != nil {
				return fmt.Errorf("res.RowsAffected: %w", err)
			}
			inserted += n
		}
		return nil
	})
	if err != nil {
		return domain.WrapError(err, errcodes.PersistenceFailed, "save memory")
	}

	logger(ctx).Debug("memory saved", slog.Int64("inserted", inserted))

	return nil
}

func (s *SQLiteMemoryStore) Close() error {
	return s.db.Close()
}

func withTx(ctx context.Context, db *sqlx.DB, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("db.BeginTxx: %w", err)
	}

	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("tx.Commit: %w", err)
	}

	return nil
}
