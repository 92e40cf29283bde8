package lock

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"deal_scout/pkg/logx"
)

// File is a lock file created with O_EXCL next to the memory file. A file
// older than ttl is treated as left by a crashed process and replaced.
type File struct {
	path string
	ttl  time.Duration
	now  func() time.Time
}

func NewFile(path string, ttl time.Duration) *File {
	return &File{
		path: path,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (l *File) Acquire(ctx context.Context) (func(), error) {
	f, err := l.create()
	if errors.Is(err, fs.ErrExist) && l.stale() {
		logger(ctx).Warn("removing stale scan lock", slog.String("path", l.path))
		_ = os.Remove(l.path)
		f, err = l.create()
	}

	if errors.Is(err, fs.ErrExist) {
		holder, _ := os.ReadFile(l.path)
		return nil, errBusy("pid " + string(holder))
	}
	if err != nil {
		return nil, fmt.Errorf("os.OpenFile: %w", err)
	}

	_, err = f.WriteString(strconv.Itoa(os.Getpid()))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(l.path)
		return nil, fmt.Errorf("write lock file: %w", err)
	}

	release := func() {
		if err := os.Remove(l.path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger(ctx).Error("release scan lock", slog.String("path", l.path), logx.Error(err))
		}
	}

	return release, nil
}

func (l *File) create() (*os.File, error) {
	return os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o600) //nolint:mnd // owner only
}

func (l *File) stale() bool {
	if l.ttl <= 0 {
		return false
	}

	info, err := os.Stat(l.path)
	if err != nil {
		return false
	}

	return l.now().Sub(info.ModTime()) > l.ttl
}
