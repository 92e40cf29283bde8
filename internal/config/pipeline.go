package config

import "time"

type Planner struct {
	Threshold   float64       `env:"PLANNER_THRESHOLD" envDefault:"200"`
	Interval    time.Duration `env:"PLANNER_INTERVAL" envDefault:"30m"`
	DealCount   int           `env:"PLANNER_DEAL_COUNT" envDefault:"5"`
	Neighbours  int           `env:"PLANNER_NEIGHBOURS" envDefault:"5"`
	PassTimeout time.Duration `env:"PLANNER_PASS_TIMEOUT" envDefault:"10m"`
	LockTTL     time.Duration `env:"PLANNER_LOCK_TTL" envDefault:"15m"`
	LockKey     string        `env:"PLANNER_LOCK_KEY" envDefault:"deal_scout:scan"`
}

type Feed struct {
	// FEED_URLS=electronics=https://...,computers=https://...
	URLs              map[string]string `env:"FEED_URLS" envKeyValSeparator:"="`
	EntriesPerFeed    int               `env:"FEED_ENTRIES_PER_FEED" envDefault:"10"`
	RequestsPerSecond float64           `env:"FEED_REQUESTS_PER_SECOND" envDefault:"2"`
	Timeout           time.Duration     `env:"FEED_TIMEOUT" envDefault:"20s"`
	FetchDetails      bool              `env:"FEED_FETCH_DETAILS" envDefault:"true"`
	UserAgent         string            `env:"FEED_USER_AGENT"`
}

type LLM struct {
	Provider          string        `env:"LLM_PROVIDER" envDefault:"openai"`
	Model             string        `env:"LLM_MODEL" envDefault:"gpt-4o-mini"`
	OpenAIAPIKey      string        `env:"OPENAI_API_KEY" json:"-"`
	OpenAIBaseURL     string        `env:"OPENAI_BASE_URL"`
	GeminiAPIKey      string        `env:"GEMINI_API_KEY" json:"-"`
	GeminiModel       string        `env:"GEMINI_MODEL" envDefault:"gemini-2.5-flash"`
	EmbeddingModel    string        `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`
	EmbeddingCacheTTL time.Duration `env:"EMBEDDING_CACHE_TTL" envDefault:"24h"`
	RequestsPerSecond float64       `env:"LLM_REQUESTS_PER_SECOND" envDefault:"1"`
	Timeout           time.Duration `env:"LLM_TIMEOUT" envDefault:"60s"`
}

func (l LLM) UsesGemini() bool {
	return l.Provider == "gemini"
}

// Specialist is the fine-tuned pricing model behind an OpenAI compatible
// completions endpoint. It is skipped when BaseURL is empty.
type Specialist struct {
	BaseURL   string `env:"SPECIALIST_BASE_URL"`
	APIKey    string `env:"SPECIALIST_API_KEY" json:"-"`
	Model     string `env:"SPECIALIST_MODEL" envDefault:"pricer"`
	Seed      int64  `env:"SPECIALIST_SEED" envDefault:"42"`
	MaxTokens int64  `env:"SPECIALIST_MAX_TOKENS" envDefault:"5"`
}

func (s Specialist) Enabled() bool {
	return s.BaseURL != ""
}

// Statistical is the ONNX regressor over embeddings. It is skipped when
// ModelPath is empty.
type Statistical struct {
	ModelPath         string `env:"STATISTICAL_MODEL_PATH"`
	SharedLibraryPath string `env:"ONNXRUNTIME_LIB"`
	InputName         string `env:"STATISTICAL_INPUT_NAME" envDefault:"float_input"`
	OutputName        string `env:"STATISTICAL_OUTPUT_NAME" envDefault:"variable"`
}

func (s Statistical) Enabled() bool {
	return s.ModelPath != ""
}

type Combiner struct {
	WeightsPath string  `env:"COMBINER_WEIGHTS_PATH"`
	Ceiling     float64 `env:"COMBINER_CEILING" envDefault:"10000"`
	Default     float64 `env:"COMBINER_DEFAULT" envDefault:"100"`
}

type Memory struct {
	Backend string `env:"MEMORY_BACKEND" envDefault:"json"`
	Path    string `env:"MEMORY_PATH" envDefault:"memory.json"`
}

func (m Memory) UsesSQLite() bool {
	return m.Backend == "sqlite"
}
