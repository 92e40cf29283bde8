package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"

	"deal_scout/pkg/retry"
)

type Config struct {
	App         App
	Planner     Planner
	Feed        Feed
	LLM         LLM
	Specialist  Specialist
	Statistical Statistical
	Combiner    Combiner
	Memory      Memory
	Postgres    Postgres
	Redis       Redis
	Bot         Bot
	Email       Email
	Kafka       Kafka
	HTTP        HTTP
	Retry       retry.Policy `envPrefix:"RETRY_"`
}

func Load() (Config, error) {
	_ = godotenv.Load()

	var config Config

	if err := env.Parse(&config); err != nil {
		return Config{}, fmt.Errorf("env.Parse: %w", err)
	}

	return config, nil
}
