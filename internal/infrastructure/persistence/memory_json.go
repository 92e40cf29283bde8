package persistence

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/lox"
)

const memoryFileMode = 0o644

// JSONMemoryStore хранит память в одном JSON-файле. Файл перезаписывается
// целиком через временный файл и rename.
type JSONMemoryStore struct {
	path string
	mu   sync.Mutex
}

func NewJSONMemoryStore(path string) *JSONMemoryStore {
	return &JSONMemoryStore{path: path}
}

func (s *JSONMemoryStore) Path() string {
	return s.path
}

// Load returns an empty list when the file does not exist yet.
func (s *JSONMemoryStore) Load(ctx context.Context) ([]entity.Opportunity, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		logger(ctx).Debug("memory file not found, starting empty", slog.String("path", s.path))
		return []entity.Opportunity{}, nil
	}
	if err != nil {
		return nil, domain.WrapError(fmt.Errorf("os.ReadFile: %w", err), errcodes.PersistenceFailed, "read memory")
	}

	if len(bytes.TrimSpace(data)) == 0 {
		return []entity.Opportunity{}, nil
	}

	var schemas []opportunitySchema
	if err := json.Unmarshal(data, &schemas); err != nil {
		return nil, domain.WrapError(fmt.Errorf("json.Unmarshal: %w", err), errcodes.PersistenceFailed, "decode memory")
	}

	return lox.Map(schemas, opportunitySchema.toDomain), nil
}

func (s *JSONMemoryStore) Save(ctx context.Context, opportunities []entity.Opportunity) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := json.MarshalIndent(lox.Map(opportunities, fromOpportunity), "", "  ")
	if err != nil {
		return domain.WrapError(fmt.Errorf("json.MarshalIndent: %w", err), errcodes.PersistenceFailed, "encode memory")
	}

	if err := writeFileAtomic(s.path, data); err != nil {
		return domain.WrapError(err, errcodes.PersistenceFailed, "write memory")
	}

	logger(ctx).Debug("memory saved", slog.String("path", s.path), slog.Int("opportunities", len(opportunities)))

	return nil
}

func writeFileAtomic(path string, data []byte) (err error) {
	dir := filepath.Dir(path)

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("os.CreateTemp: %w", err)
	}

	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Write: %w", err)
	}

	if err = tmp.Sync(); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("tmp.Sync: %w", err)
	}

	if err = tmp.Close(); err != nil {
		return fmt.Errorf("tmp.Close: %w", err)
	}

	if err = os.Chmod(tmp.Name(), memoryFileMode); err != nil {
		return fmt.Errorf("os.Chmod: %w", err)
	}

	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("os.Rename: %w", err)
	}

	return nil
}
