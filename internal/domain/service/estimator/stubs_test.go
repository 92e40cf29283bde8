package estimator_test

import (
	"context"

	"deal_scout/internal/domain/value"
)

type indexStub struct {
	FindSimilarFunc func(ctx context.Context, description string, k int) ([]string, []float64, error)
}

func (s indexStub) FindSimilar(ctx context.Context, description string, k int) ([]string, []float64, error) {
	return s.FindSimilarFunc(ctx, description, k)
}

type completerStub struct {
	CompleteFunc func(ctx context.Context, prompt value.Prompt) (string, error)
}

func (s completerStub) Complete(ctx context.Context, prompt value.Prompt) (string, error) {
	return s.CompleteFunc(ctx, prompt)
}

type generatorStub struct {
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
}

func (s generatorStub) Generate(ctx context.Context, prompt string) (string, error) {
	return s.GenerateFunc(ctx, prompt)
}

type embedderStub struct {
	EmbedFunc func(ctx context.Context, texts []string) ([][]float32, error)
}

func (s embedderStub) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	return s.EmbedFunc(ctx, texts)
}

type regressorStub struct {
	PredictFunc func(features []float32) (float64, error)
}

func (s regressorStub) Predict(features []float32) (float64, error) {
	return s.PredictFunc(features)
}

type fixedEstimator struct {
	name  string
	value float64
	err   error
	calls *int
}

func (f fixedEstimator) Name() string { return f.name }

func (f fixedEstimator) Estimate(context.Context, string) (float64, error) {
	if f.calls != nil {
		*f.calls++
	}
	return f.value, f.err
}
