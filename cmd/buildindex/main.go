// Command buildindex loads priced items from a JSONL file into the similarity
// index.
//
//	buildindex -file items.jsonl -batch 100
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"
	"github.com/samber/lo"

	"deal_scout/internal/config"
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/infrastructure/llm"
	"deal_scout/internal/infrastructure/persistence"
	"deal_scout/pkg/application/connectors"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/lox"
)

var (
	json     = jsoniter.ConfigCompatibleWithStandardLibrary         //nolint:gochecknoglobals // skip
	validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip
)

const maxLineSize = 1 << 20

type itemLine struct {
	Description string  `json:"description" validate:"required"`
	Price       float64 `json:"price" validate:"gt=0"`
	Category    string  `json:"category"`
}

func (l itemLine) toDomain() entity.Item {
	return entity.Item{
		Description: l.Description,
		Price:       l.Price,
		Category:    l.Category,
	}
}

func main() {
	file := flag.String("file", "items.jsonl", "JSONL file with description, price and category per line")
	batch := flag.Int("batch", 100, "items per embedding request")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load", logx.Error(err))
		os.Exit(1)
	}

	log := logx.NewLogger(os.Stdout, cfg.App.LogFormat, cfg.App.LogLevel)
	ctx = contextx.WithLogger(ctx, log)

	if err := run(ctx, cfg, *file, *batch); err != nil {
		log.Error("build index", logx.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, path string, batch int) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("os.Open: %w", err)
	}
	defer f.Close()

	items, skipped, err := readItems(f)
	if err != nil {
		return err
	}

	contextx.LoggerFromContextOrDefault(ctx).Info("items read",
		slog.Int("items", len(items)),
		slog.Int("skipped", skipped),
	)

	pg := &connectors.Postgres{
		DSN:             cfg.Postgres.DSN,
		MaxOpenConns:    cfg.Postgres.MaxOpenConns,
		MaxIdleConns:    cfg.Postgres.MaxIdleConns,
		ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
	}
	defer pg.Close(ctx)

	repo := persistence.NewItemRepository(pg.Client(ctx))

	embedder := llm.NewEmbedder(
		llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, nil),
		cfg.LLM.EmbeddingModel,
		cfg.LLM.EmbeddingCacheTTL,
	).
		WithRateLimit(cfg.LLM.RequestsPerSecond).
		WithRetry(cfg.Retry)

	for i, chunk := range lo.Chunk(items, max(batch, 1)) {
		vectors, err := embedder.Embed(ctx, lox.Map(chunk, func(it entity.Item) string { return it.Description }))
		if err != nil {
			return fmt.Errorf("embedder.Embed: %w", err)
		}

		if err := repo.Upsert(ctx, chunk, vectors); err != nil {
			return fmt.Errorf("repo.Upsert: %w", err)
		}

		contextx.LoggerFromContextOrDefault(ctx).Info("batch indexed", slog.Int("batch", i+1), slog.Int("items", len(chunk)))
	}

	total, err := repo.Count(ctx)
	if err != nil {
		return fmt.Errorf("repo.Count: %w", err)
	}

	contextx.LoggerFromContextOrDefault(ctx).Info("index built", slog.Int("total", total))

	return nil
}

// readItems parses one item per line. Blank lines and lines that fail
// validation are skipped and counted; malformed JSON stops the read.
func readItems(r io.Reader) ([]entity.Item, int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	var (
		items   []entity.Item
		skipped int
		lineNo  int
	)

	for scanner.Scan() {
		lineNo++

		raw := scanner.Bytes()
		if len(raw) == 0 {
			continue
		}

		var line itemLine
		if err := json.Unmarshal(raw, &line); err != nil {
			return nil, 0, fmt.Errorf("line %d: json.Unmarshal: %w", lineNo, err)
		}

		if err := validate.Struct(line); err != nil {
			skipped++
			continue
		}

		items = append(items, line.toDomain())
	}

	if err := scanner.Err(); err != nil {
		return nil, 0, fmt.Errorf("scanner.Err: %w", err)
	}

	return items, skipped, nil
}
