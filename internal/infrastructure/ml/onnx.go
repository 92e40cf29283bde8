// Package ml loads offline-trained models used by the estimators.
package ml

import (
	"fmt"
	"sync"

	ort "github.com/yalue/onnxruntime_go"
)

var envMu sync.Mutex //nolint:gochecknoglobals // onnxruntime has one process-wide environment

// ONNXRegressor runs a single-output regression model exported to ONNX.
// The model takes a [1, N] float32 tensor and returns [1, 1].
type ONNXRegressor struct {
	mu      sync.Mutex
	session *ort.DynamicAdvancedSession
}

type ONNXConfig struct {
	ModelPath         string
	SharedLibraryPath string
	InputName         string
	OutputName        string
}

func LoadONNXRegressor(cfg ONNXConfig) (*ONNXRegressor, error) {
	if err := initEnvironment(cfg.SharedLibraryPath); err != nil {
		return nil, err
	}

	options, err := ort.NewSessionOptions()
	if err != nil {
		return nil, fmt.Errorf("ort.NewSessionOptions: %w", err)
	}
	defer options.Destroy() //nolint:errcheck // options are copied into the session

	session, err := ort.NewDynamicAdvancedSession(
		cfg.ModelPath,
		[]string{cfg.InputName},
		[]string{cfg.OutputName},
		options,
	)
	if err != nil {
		return nil, fmt.Errorf("ort.NewDynamicAdvancedSession: %w", err)
	}

	return &ONNXRegressor{session: session}, nil
}

func initEnvironment(sharedLibraryPath string) error {
	envMu.Lock()
	defer envMu.Unlock()

	if ort.IsInitialized() {
		return nil
	}

	if sharedLibraryPath != "" {
		ort.SetSharedLibraryPath(sharedLibraryPath)
	}

	if err := ort.InitializeEnvironment(); err != nil {
		return fmt.Errorf("ort.InitializeEnvironment: %w", err)
	}

	return nil
}

func (r *ONNXRegressor) Predict(features []float32) (float64, error) {
	if len(features) == 0 {
		return 0, fmt.Errorf("onnx predict: empty feature vector")
	}

	input, err := ort.NewTensor(ort.NewShape(1, int64(len(features))), features)
	if err != nil {
		return 0, fmt.Errorf("ort.NewTensor(input): %w", err)
	}
	defer input.Destroy() //nolint:errcheck // skip

	output, err := ort.NewEmptyTensor[float32](ort.NewShape(1, 1))
	if err != nil {
		return 0, fmt.Errorf("ort.NewEmptyTensor(output): %w", err)
	}
	defer output.Destroy() //nolint:errcheck // skip

	r.mu.Lock()
	err = r.session.Run([]ort.Value{input}, []ort.Value{output})
	r.mu.Unlock()

	if err != nil {
		return 0, fmt.Errorf("session.Run: %w", err)
	}

	return float64(output.GetData()[0]), nil
}

func (r *ONNXRegressor) Close() error {
	if err := r.session.Destroy(); err != nil {
		return fmt.Errorf("session.Destroy: %w", err)
	}
	return nil
}
