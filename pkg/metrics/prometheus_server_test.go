package metrics_test

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"deal_scout/pkg/metrics"
)

func TestPrometheusServer(t *testing.T) {
	testCases := []struct {
		name          string
		listenAddress string
		endpoint      string
		statusCode    int
		bodyContains  string
	}{
		{
			name:          "metrics handler exports build info",
			listenAddress: ":10010",
			endpoint:      "http://:10010/metrics",
			statusCode:    http.StatusOK,
			bodyContains:  `deal_scout_build_info{name="deal_scout",version="v1.2.3"} 1`,
		},
		{
			name:          "invalid endpoint",
			listenAddress: ":10020",
			endpoint:      "http://:10020/invalid",
			statusCode:    http.StatusNotFound,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			prometheusServer := metrics.NewPrometheusServer(tc.listenAddress).
				WithBuildInfo("deal_scout", "v1.2.3")

			g, ctx := errgroup.WithContext(ctx)

			g.Go(func() error {
				return prometheusServer.Run(ctx)
			})

			// Wait for server to start.
			time.Sleep(time.Second)

			req, err := http.NewRequestWithContext(ctx, http.MethodGet, tc.endpoint, http.NoBody)
			rq.NoError(err)

			resp, err := http.DefaultClient.Do(req)
			rq.NoError(err)

			body, err := io.ReadAll(resp.Body)
			resp.Body.Close()
			rq.NoError(err)

			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.bodyContains != "" {
				rq.Contains(string(body), tc.bodyContains)
			}

			cancel()

			rq.NoError(g.Wait())
		})
	}
}
