// Package worker runs discovery passes on a schedule, from the task queue or
// on demand.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/xid"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	TypeScan   = "deals:scan"
	QueueScans = "scans"

	defaultPassTimeout = 10 * time.Minute
	defaultInterval    = 30 * time.Minute
)

type Planner interface {
	RunOnce(ctx context.Context) ([]entity.Opportunity, error)
}

// ScanWorker runs one planner pass per tick or per queued task.
type ScanWorker struct {
	planner  Planner
	timeout  time.Duration
	interval time.Duration
}

func NewScanWorker(planner Planner) *ScanWorker {
	return &ScanWorker{
		planner:  planner,
		timeout:  defaultPassTimeout,
		interval: defaultInterval,
	}
}

func (w *ScanWorker) WithTimeout(d time.Duration) *ScanWorker {
	if d > 0 {
		w.timeout = d
	}
	return w
}

func (w *ScanWorker) WithInterval(d time.Duration) *ScanWorker {
	if d > 0 {
		w.interval = d
	}
	return w
}

func (w *ScanWorker) Interval() time.Duration {
	return w.interval
}

// HandleScanTask is the asynq handler for TypeScan. A pass that is already
// running elsewhere is not an error; only a failed memory write is retried,
// every other failure waits for the next schedule.
func (w *ScanWorker) HandleScanTask(ctx context.Context, task *asynq.Task) error {
	id, _ := asynq.GetTaskID(ctx)
	ctx = contextx.WithLogger(ctx, logger(ctx).With(slog.String(logx.FieldTask, id)))

	err := w.scan(ctx)

	switch {
	case err == nil:
		return nil
	case domain.HasCode(err, errcodes.ScanInProgress):
		logger(ctx).Info("scan skipped, another pass is running")
		return nil
	case domain.HasCode(err, errcodes.PersistenceFailed):
		return fmt.Errorf("%s: %w", task.Type(), err)
	default:
		return fmt.Errorf("%s: %w: %w", task.Type(), err, asynq.SkipRetry)
	}
}

// Run scans immediately and then every interval until ctx is done. It is
// used when no task queue is configured.
func (w *ScanWorker) Run(ctx context.Context) error {
	logger(ctx).Info("scan loop started", slog.Duration("interval", w.interval))

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		if err := w.scan(ctx); err != nil && ctx.Err() == nil {
			logger(ctx).Error("scan failed", logx.Error(err))
		}

		select {
		case <-ctx.Done():
			logger(ctx).Info("scan loop stopped")
			return nil
		case <-ticker.C:
		}
	}
}

// Trigger starts a pass in the background and returns its id.
func (w *ScanWorker) Trigger(ctx context.Context) (string, error) {
	id := xid.New().String()
	ctx = contextx.WithLogger(context.WithoutCancel(ctx), logger(ctx).With(slog.String(logx.FieldTask, id)))

	go func() {
		if err := w.scan(ctx); err != nil {
			logger(ctx).Error("triggered scan failed", logx.Error(err))
		}
	}()

	return id, nil
}

func (w *ScanWorker) scan(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	found, err := w.planner.RunOnce(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return fmt.Errorf("pass exceeded %s: %w", w.timeout, err)
		}
		return err
	}

	logger(ctx).Info("scan finished", slog.Int("opportunities", len(found)))

	return nil
}

// Enqueuer puts a scan task on the queue for the worker server.
type Enqueuer struct {
	client  *asynq.Client
	timeout time.Duration
}

func NewEnqueuer(client *asynq.Client, timeout time.Duration) *Enqueuer {
	return &Enqueuer{
		client:  client,
		timeout: timeout,
	}
}

func (e *Enqueuer) Trigger(ctx context.Context) (string, error) {
	info, err := e.client.EnqueueContext(ctx, NewScanTask(), ScanTaskOptions(e.timeout)...)
	if err != nil {
		return "", fmt.Errorf("client.EnqueueContext: %w", err)
	}

	logger(ctx).Info("scan enqueued", slog.String(logx.FieldTask, info.ID))

	return info.ID, nil
}

func NewScanTask() *asynq.Task {
	return asynq.NewTask(TypeScan, nil)
}

func ScanTaskOptions(timeout time.Duration) []asynq.Option {
	return []asynq.Option{
		asynq.Queue(QueueScans),
		asynq.MaxRetry(1),
		asynq.Timeout(timeout),
	}
}
