// Package lock keeps a single discovery pass running across processes.
package lock

import (
	"deal_scout/internal/domain"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

func errBusy(holder string) error {
	return domain.NewError(errcodes.ScanInProgress, "scan already running: "+holder)
}
