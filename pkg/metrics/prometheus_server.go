package metrics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"deal_scout/pkg/contextx"
	"deal_scout/pkg/logx"
)

// Namespace prefixes every metric the service exports.
const Namespace = "deal_scout"

const httpServerReadHeaderTimeout = 5 * time.Second

//nolint:gochecknoglobals
var (
	logger = contextx.LoggerFromContextOrDefault

	buildInfo = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: Namespace,
		Name:      "build_info",
		Help:      "Always 1; labels carry the running build.",
	}, []string{"name", "version"})
)

type PrometheusServer struct {
	listenAddress string
	name          string
	version       string
}

func NewPrometheusServer(
	listenAddress string,
) PrometheusServer {
	return PrometheusServer{
		listenAddress: listenAddress,
	}
}

// WithBuildInfo exports deal_scout_build_info for the given build.
func (p PrometheusServer) WithBuildInfo(name, version string) PrometheusServer {
	p.name = name
	p.version = version

	return p
}

func (p PrometheusServer) Run(ctx context.Context) error {
	if p.version != "" {
		buildInfo.WithLabelValues(p.name, p.version).Set(1)
	}

	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.Handler())

	httpServer := &http.Server{
		//nolint:exhaustruct
		Addr:              p.listenAddress,
		Handler:           mux,
		ReadHeaderTimeout: httpServerReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return ctx
		},
	}

	go func() {
		<-ctx.Done()

		if err := httpServer.Shutdown(context.WithoutCancel(ctx)); err != nil {
			logger(ctx).Error("httpServer.Shutdown", logx.Error(err))
		}
	}()

	logger(ctx).Info("prometheus server started", slog.String("address", p.listenAddress))

	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("httpServer.ListenAndServe: %w", err)
	}

	logger(ctx).Info("prometheus server stopped")

	return nil
}
