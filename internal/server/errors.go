package server

import (
	"context"
	"net/http"

	"git.appkode.ru/pub/go/failure"

	"deal_scout/internal/domain"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/httpx/reply"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

//nolint:gochecknoglobals
var codeStatus = map[failure.ErrorCode]int{
	errcodes.ScanInProgress:      http.StatusConflict,
	errcodes.FetchFailed:         http.StatusBadGateway,
	errcodes.ExtractionFailed:    http.StatusBadGateway,
	errcodes.ProviderUnavailable: http.StatusServiceUnavailable,
	errcodes.IndexUnavailable:    http.StatusServiceUnavailable,
	errcodes.PersistenceFailed:   http.StatusInternalServerError,
}

// replyError answers pipeline failures with their code; anything else goes
// through reply.Error.
func replyError(ctx context.Context, w http.ResponseWriter, err error) {
	code, ok := domain.GetCode(err)
	status, known := codeStatus[code]

	if !ok || !known {
		reply.Error(ctx, w, err)
		return
	}

	if status >= http.StatusInternalServerError {
		logger(ctx).Error("pipeline error", logx.Error(err))
	} else {
		logger(ctx).Info("request rejected", logx.Error(err))
	}

	reply.Status(ctx, w, status, code, err.Error())
}
