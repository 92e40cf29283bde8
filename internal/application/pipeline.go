package application

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/openai/openai-go/v3"

	"deal_scout/internal/config"
	"deal_scout/internal/domain/service/estimator"
	"deal_scout/internal/domain/service/planner"
	"deal_scout/internal/domain/service/scanner"
	"deal_scout/internal/domain/value"
	"deal_scout/internal/infrastructure/feed"
	"deal_scout/internal/infrastructure/llm"
	"deal_scout/internal/infrastructure/lock"
	"deal_scout/internal/infrastructure/ml"
	"deal_scout/internal/infrastructure/notifier"
	"deal_scout/internal/infrastructure/persistence"
	"deal_scout/pkg/application/connectors"
	"deal_scout/pkg/httpx"
	"deal_scout/pkg/logx"
)

type chatModel interface {
	Model() string
	Complete(ctx context.Context, prompt value.Prompt) (string, error)
	CompleteJSON(ctx context.Context, prompt value.Prompt, schema *value.Schema, dest any) error
}

// Pipeline holds the planner and the connections it was built on.
type Pipeline struct {
	Planner  *planner.Planner
	Postgres *connectors.Postgres
	Redis    *connectors.Redis
	Embedder *llm.Embedder
	Items    *persistence.ItemRepository

	closers []func() error
}

// BuildPipeline wires the planner from configuration. Optional estimators and
// channels are left out when their settings are empty.
func BuildPipeline(ctx context.Context, cfg config.Config) (*Pipeline, error) {
	p := &Pipeline{
		Postgres: &connectors.Postgres{
			DSN:             cfg.Postgres.DSN,
			MaxOpenConns:    cfg.Postgres.MaxOpenConns,
			MaxIdleConns:    cfg.Postgres.MaxIdleConns,
			ConnMaxLifetime: cfg.Postgres.ConnMaxLifetime,
		},
	}

	if cfg.Redis.Enabled() {
		p.Redis = &connectors.Redis{
			Address:        cfg.Redis.Address,
			Username:       cfg.Redis.Username,
			Password:       cfg.Redis.Password,
			DatabaseNumber: cfg.Redis.DB,
			PoolSize:       cfg.Redis.PoolSize,
			ClientName:     cfg.App.Name,
			DialTimeout:    cfg.Redis.DialTimeout,
		}
	}

	openAIClient := llm.NewOpenAIClient(cfg.LLM.OpenAIAPIKey, cfg.LLM.OpenAIBaseURL, newHTTPClient(cfg, cfg.LLM.Timeout))

	chat, err := newChatModel(ctx, cfg, openAIClient)
	if err != nil {
		return nil, err
	}

	p.Embedder = llm.NewEmbedder(openAIClient, cfg.LLM.EmbeddingModel, cfg.LLM.EmbeddingCacheTTL).
		WithRateLimit(cfg.LLM.RequestsPerSecond).
		WithRetry(cfg.Retry)
	p.Items = persistence.NewItemRepository(p.Postgres.Client(ctx))

	ensemble, err := p.newEnsemble(cfg, chat)
	if err != nil {
		p.Close(ctx)
		return nil, err
	}

	memory, err := p.newMemory(ctx, cfg)
	if err != nil {
		p.Close(ctx)
		return nil, err
	}

	source := feed.NewSource(newHTTPClient(cfg, cfg.Feed.Timeout, httpx.WithBodies(false))).
		WithEntriesPerFeed(cfg.Feed.EntriesPerFeed).
		WithRateLimit(cfg.Feed.RequestsPerSecond).
		WithRetry(cfg.Retry).
		WithDetails(cfg.Feed.FetchDetails).
		WithUserAgent(cfg.Feed.UserAgent)

	feeds := feed.DefaultFeeds()
	if len(cfg.Feed.URLs) > 0 {
		feeds = feed.FeedsFromMap(cfg.Feed.URLs)
	}

	dispatcher, err := p.newDispatcher(ctx, cfg)
	if err != nil {
		p.Close(ctx)
		return nil, err
	}

	p.Planner = planner.NewPlanner(
		source,
		scanner.NewScanner(chat).WithDealCount(cfg.Planner.DealCount),
		ensemble,
		memory,
		dispatcher,
	).
		WithFeeds(feeds...).
		WithThreshold(cfg.Planner.Threshold).
		WithLocker(p.newLocker(ctx, cfg))

	logger(ctx).Info("pipeline ready",
		slog.String("model", chat.Model()),
		slog.Int("feeds", len(feeds)),
		slog.Any("channels", dispatcher.Channels()),
		slog.Float64("threshold", cfg.Planner.Threshold),
	)

	return p, nil
}

// Close releases everything BuildPipeline opened, in reverse order.
func (p *Pipeline) Close(ctx context.Context) {
	for i := len(p.closers) - 1; i >= 0; i-- {
		if err := p.closers[i](); err != nil {
			logger(ctx).Error("pipeline close", logx.Error(err))
		}
	}

	if p.Redis != nil {
		p.Redis.Close(ctx)
	}
	p.Postgres.Close(ctx)
}

// newHTTPClient logs outgoing traffic at debug level with secrets masked.
func newHTTPClient(cfg config.Config, timeout time.Duration, opts ...httpx.Option) *http.Client {
	opts = append([]httpx.Option{
		httpx.WithLogFieldMaxLen(cfg.App.LogFieldMaxLen),
		httpx.WithSensitiveDataMasker(logx.NewSensitiveDataMasker()),
		httpx.WithLevel(slog.LevelDebug),
	}, opts...)

	return &http.Client{
		Timeout:   timeout,
		Transport: httpx.NewLoggingRoundTripper(http.DefaultTransport, opts...),
	}
}

func newChatModel(ctx context.Context, cfg config.Config, openAIClient openai.Client) (chatModel, error) {
	if cfg.LLM.UsesGemini() {
		gemini, err := llm.NewGemini(ctx, cfg.LLM.GeminiAPIKey, cfg.LLM.GeminiModel, newHTTPClient(cfg, cfg.LLM.Timeout))
		if err != nil {
			return nil, fmt.Errorf("llm.NewGemini: %w", err)
		}

		return gemini.
			WithRateLimit(cfg.LLM.RequestsPerSecond).
			WithRetry(cfg.Retry), nil
	}

	return llm.NewOpenAI(openAIClient, cfg.LLM.Model).
		WithRateLimit(cfg.LLM.RequestsPerSecond).
		WithRetry(cfg.Retry), nil
}

func (p *Pipeline) newEnsemble(cfg config.Config, chat chatModel) (*estimator.Ensemble, error) {
	index := persistence.NewSimilarityIndex(p.Embedder, p.Items)

	estimators := []estimator.Estimator{
		estimator.NewFrontier(index, chat).WithNeighbours(cfg.Planner.Neighbours),
	}

	if cfg.Specialist.Enabled() {
		client := llm.NewOpenAIClient(cfg.Specialist.APIKey, cfg.Specialist.BaseURL, newHTTPClient(cfg, cfg.LLM.Timeout))

		generator := llm.NewGenerator(client, cfg.Specialist.Model).
			WithSeed(cfg.Specialist.Seed).
			WithMaxTokens(cfg.Specialist.MaxTokens).
			WithRetry(cfg.Retry)

		estimators = append(estimators, estimator.NewSpecialist(generator))
	}

	if cfg.Statistical.Enabled() {
		regressor, err := ml.LoadONNXRegressor(ml.ONNXConfig{
			ModelPath:         cfg.Statistical.ModelPath,
			SharedLibraryPath: cfg.Statistical.SharedLibraryPath,
			InputName:         cfg.Statistical.InputName,
			OutputName:        cfg.Statistical.OutputName,
		})
		if err != nil {
			return nil, fmt.Errorf("ml.LoadONNXRegressor: %w", err)
		}
		p.closers = append(p.closers, regressor.Close)

		estimators = append(estimators, estimator.NewStatistical(p.Embedder, regressor))
	}

	mean := estimator.MeanCombiner{
		Ceiling: cfg.Combiner.Ceiling,
		Default: cfg.Combiner.Default,
	}

	var combiner estimator.Combiner = mean

	if cfg.Combiner.WeightsPath != "" {
		weights, err := ml.LoadLinearWeights(cfg.Combiner.WeightsPath)
		if err != nil {
			return nil, fmt.Errorf("ml.LoadLinearWeights: %w", err)
		}

		combiner = estimator.NewLinearCombiner(weights).WithFallback(mean)
	}

	return estimator.NewEnsemble(combiner, estimators...), nil
}

func (p *Pipeline) newMemory(ctx context.Context, cfg config.Config) (planner.MemoryStore, error) {
	if !cfg.Memory.UsesSQLite() {
		return persistence.NewJSONMemoryStore(cfg.Memory.Path), nil
	}

	store, err := persistence.NewSQLiteMemoryStore(ctx, cfg.Memory.Path)
	if err != nil {
		return nil, fmt.Errorf("persistence.NewSQLiteMemoryStore: %w", err)
	}
	p.closers = append(p.closers, store.Close)

	return store, nil
}

func (p *Pipeline) newDispatcher(ctx context.Context, cfg config.Config) (*notifier.Dispatcher, error) {
	var senders []notifier.Sender

	if cfg.Bot.Enabled() && cfg.Bot.ChatID != 0 {
		bot, err := notifier.NewTelegramBot(cfg.Bot.Token, cfg.Bot.ChatID)
		if err != nil {
			return nil, fmt.Errorf("notifier.NewTelegramBot: %w", err)
		}
		senders = append(senders, bot)
	}

	if cfg.Email.Enabled() {
		senders = append(senders, notifier.NewEmail(notifier.EmailConfig{
			Host:     cfg.Email.Host,
			Port:     cfg.Email.Port,
			Username: cfg.Email.Username,
			Password: cfg.Email.Password,
			From:     cfg.Email.From,
			To:       cfg.Email.To,
		}))
	}

	if cfg.Kafka.Enabled() {
		k := notifier.NewKafka(notifier.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		p.closers = append(p.closers, k.Close)
		senders = append(senders, k)
	}

	if len(senders) == 0 {
		logger(ctx).Warn("no notification channel configured, alerts go to the log")
		senders = append(senders, notifier.Log{})
	}

	return notifier.NewDispatcher(senders...).WithRetry(cfg.Retry), nil
}

func (p *Pipeline) newLocker(ctx context.Context, cfg config.Config) planner.Locker {
	if p.Redis != nil {
		return lock.NewRedis(p.Redis.Client(ctx), cfg.Planner.LockKey, cfg.Planner.LockTTL)
	}

	return lock.NewFile(cfg.Memory.Path+".lock", cfg.Planner.LockTTL)
}
