// Package feed reads deal listings from RSS feeds and enriches each entry
// with the text of its product page.
package feed

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/time/rate"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
	"deal_scout/pkg/retry"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const (
	defaultEntriesPerFeed    = 10
	defaultRequestsPerSecond = 2
	defaultUserAgent         = "deal_scout/1.0 (+https://github.com/deal_scout)"
	maxBodyBytes             = 4 << 20
)

type Source struct {
	client         *http.Client
	limiter        *rate.Limiter
	policy         retry.Policy
	entriesPerFeed int
	fetchDetails   bool
	userAgent      string
	strip          *bluemonday.Policy
	markdown       *converter.Converter
}

func NewSource(client *http.Client) *Source {
	if client == nil {
		client = http.DefaultClient
	}

	return &Source{
		client:         client,
		limiter:        rate.NewLimiter(rate.Limit(defaultRequestsPerSecond), 1),
		policy:         retry.Once,
		entriesPerFeed: defaultEntriesPerFeed,
		fetchDetails:   true,
		userAgent:      defaultUserAgent,
		strip:          bluemonday.StrictPolicy(),
		markdown: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
				table.NewTablePlugin(),
			),
		),
	}
}

func (s *Source) WithEntriesPerFeed(n int) *Source {
	if n > 0 {
		s.entriesPerFeed = n
	}
	return s
}

// WithRateLimit caps requests to the deal site, feeds and pages together.
func (s *Source) WithRateLimit(requestsPerSecond float64) *Source {
	if requestsPerSecond > 0 {
		s.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	} else {
		s.limiter = rate.NewLimiter(rate.Inf, 0)
	}
	return s
}

func (s *Source) WithRetry(p retry.Policy) *Source {
	s.policy = p
	return s
}

func (s *Source) WithDetails(enabled bool) *Source {
	s.fetchDetails = enabled
	return s
}

func (s *Source) WithUserAgent(ua string) *Source {
	if ua != "" {
		s.userAgent = ua
	}
	return s
}

// FetchEntries reads every feed and returns up to entriesPerFeed candidates
// from each. A feed that cannot be read is skipped; the call fails only when
// no feed could be read at all.
func (s *Source) FetchEntries(ctx context.Context, feeds []entity.Feed) ([]entity.Candidate, error) {
	var (
		candidates []entity.Candidate
		seen       = make(map[string]struct{})
		failed     int
		lastErr    error
	)

	for _, f := range feeds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entries, err := s.readFeed(ctx, f)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}

			failed++
			lastErr = err
			feedFailuresTotal.WithLabelValues(f.Name).Inc()
			logger(ctx).Warn("feed skipped", slog.String(logx.FieldFeed, f.Name), logx.Error(err))

			continue
		}

		for _, e := range entries {
			if e.Link == "" {
				continue
			}
			if _, ok := seen[e.Link]; ok {
				continue
			}
			seen[e.Link] = struct{}{}

			candidates = append(candidates, s.candidate(ctx, f, e))
		}
	}

	if len(feeds) > 0 && failed == len(feeds) {
		return nil, domain.WrapError(lastErr, errcodes.FetchFailed, "no feed could be read")
	}

	logger(ctx).Info("feeds fetched",
		slog.Int("feeds", len(feeds)),
		slog.Int("failed", failed),
		slog.Int("candidates", len(candidates)),
	)

	return candidates, nil
}

func (s *Source) readFeed(ctx context.Context, f entity.Feed) ([]entry, error) {
	data, err := s.get(ctx, f.URL)
	if err != nil {
		return nil, err
	}

	entries, err := parseFeed(data)
	if err != nil {
		return nil, err
	}

	if len(entries) > s.entriesPerFeed {
		entries = entries[:s.entriesPerFeed]
	}

	return entries, nil
}

// candidate never fails: a page that cannot be read leaves only the summary.
func (s *Source) candidate(ctx context.Context, f entity.Feed, e entry) entity.Candidate {
	body := plainText(s.strip, e.Summary)

	if s.fetchDetails {
		details, features, err := s.readPage(ctx, e.Link)
		if err != nil {
			logger(ctx).Debug("deal page unavailable, using summary",
				slog.String(logx.FieldDealURL, e.Link),
				logx.Error(err),
			)
		} else {
			body = joinBody(body, details, features)
		}
	}

	return entity.Candidate{
		Title:  plainText(s.strip, e.Title),
		Body:   body,
		URL:    e.Link,
		Source: f.Name,
	}
}

func (s *Source) readPage(ctx context.Context, url string) (string, string, error) {
	page, err := s.get(ctx, url)
	if err != nil {
		return "", "", err
	}

	return pageText(page, s.markdown)
}

func (s *Source) get(ctx context.Context, url string) ([]byte, error) {
	return retry.DoValue(ctx, s.policy, "fetch "+url, func() ([]byte, error) {
		if err := s.limiter.Wait(ctx); err != nil {
			return nil, retry.Permanent(err)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
		if err != nil {
			return nil, retry.Permanent(fmt.Errorf("http.NewRequestWithContext: %w", err))
		}
		req.Header.Set("User-Agent", s.userAgent)

		resp, err := s.client.Do(req)
		if err != nil {
			if ctx.Err() != nil {
				return nil, retry.Permanent(err)
			}
			return nil, fmt.Errorf("client.Do: %w", err)
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			err = fmt.Errorf("unexpected status %d", resp.StatusCode)
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
				return nil, err
			}
			return nil, retry.Permanent(err)
		}

		data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
		if err != nil {
			return nil, fmt.Errorf("io.ReadAll: %w", err)
		}

		return data, nil
	})
}

func joinBody(summary, details, features string) string {
	parts := make([]string, 0, 3) //nolint:mnd // summary, details, features
	for _, p := range []string{summary, details} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if features != "" {
		parts = append(parts, "Features: "+features)
	}
	return strings.Join(parts, "\n")
}
