package middlewarex

import (
	"log/slog"
	"net/http"
	"runtime/debug"

	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/httpx/reply"
	"deal_scout/pkg/logx"
)

// Recovery turns a handler panic into a 500 carrying the trace id as the
// support id.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := r.Context()

		defer func() {
			if rec := recover(); rec != nil {
				logger(ctx).Error(
					"panic in handler",
					slog.Any(logx.FieldError, rec),
					slog.String(logx.FieldStack, string(debug.Stack())),
				)

				reply.Status(ctx, w, http.StatusInternalServerError, errcodes.InternalServerError, "internal error")
			}
		}()

		next.ServeHTTP(w, r)
	})
}
