package worker_test

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/worker"
	"deal_scout/pkg/errcodes"
)

type plannerStub struct {
	calls atomic.Int32
	err   error
}

func (p *plannerStub) RunOnce(context.Context) ([]entity.Opportunity, error) {
	p.calls.Add(1)
	return nil, p.err
}

func TestHandleScanTask(t *testing.T) {
	tests := []struct {
		name      string
		err       error
		wantErr   bool
		skipRetry bool
	}{
		{
			name: "pass succeeds",
		},
		{
			name: "pass already running",
			err:  domain.NewError(errcodes.ScanInProgress, "busy"),
		},
		{
			name:    "memory not saved is retried",
			err:     domain.NewError(errcodes.PersistenceFailed, "disk full"),
			wantErr: true,
		},
		{
			name:      "fetch failure waits for next schedule",
			err:       domain.NewError(errcodes.FetchFailed, "offline"),
			wantErr:   true,
			skipRetry: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			p := &plannerStub{err: tt.err}
			err := worker.NewScanWorker(p).HandleScanTask(context.Background(), worker.NewScanTask())

			rq.Equal(int32(1), p.calls.Load())

			if !tt.wantErr {
				rq.NoError(err)
				return
			}

			rq.Error(err)
			rq.Equal(tt.skipRetry, errors.Is(err, asynq.SkipRetry))
		})
	}
}

func TestRunScansUntilCanceled(t *testing.T) {
	rq := require.New(t)

	p := &plannerStub{err: errors.New("boom")}
	w := worker.NewScanWorker(p).WithInterval(5 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	rq.Eventually(func() bool { return p.calls.Load() >= 2 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		rq.NoError(err)
	case <-time.After(time.Second):
		t.Fatal("scan loop did not stop")
	}
}

func TestTriggerRunsInBackground(t *testing.T) {
	rq := require.New(t)

	p := &plannerStub{}
	id, err := worker.NewScanWorker(p).Trigger(context.Background())
	rq.NoError(err)
	rq.NotEmpty(id)
	rq.Eventually(func() bool { return p.calls.Load() == 1 }, time.Second, time.Millisecond)
}
