package config

type App struct {
	Name           string `env:"APP_NAME" envDefault:"deal_scout"`
	Environment    string `env:"APP_ENV" envDefault:"local"`
	LogLevel       string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat      string `env:"LOG_FORMAT" envDefault:"text"`
	LogFieldMaxLen int    `env:"LOG_FIELD_MAX_LEN" envDefault:"2048"`
	ProbeAddress   string `env:"PROBE_ADDRESS" envDefault:":8081"`
	MetricsAddress string `env:"METRICS_ADDRESS" envDefault:":9090"`
}
