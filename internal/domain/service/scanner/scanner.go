// Package scanner selects priced deals from raw feed candidates with a
// language model.
package scanner

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/samber/lo"

	"deal_scout/internal/domain"
	"deal_scout/internal/domain/entity"
	"deal_scout/internal/domain/value"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/logx"
)

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

const defaultDealCount = 5

type Completer interface {
	CompleteJSON(ctx context.Context, prompt value.Prompt, schema *value.Schema, dest any) error
}

type selectedDeal struct {
	ProductDescription string  `json:"product_description"`
	Price              float64 `json:"price"`
	URL                string  `json:"url"`
}

type selection struct {
	Deals []selectedDeal `json:"deals" validate:"required"`
}

type Scanner struct {
	llm       Completer
	dealCount int
}

func NewScanner(llm Completer) *Scanner {
	return &Scanner{
		llm:       llm,
		dealCount: defaultDealCount,
	}
}

func (s *Scanner) WithDealCount(n int) *Scanner {
	if n > 0 {
		s.dealCount = n
	}
	return s
}

// Scan returns nil when every candidate is already known. Model errors are
// returned as is; the caller decides whether the pass survives them.
func (s *Scanner) Scan(
	ctx context.Context,
	candidates []entity.Candidate,
	knownURLs map[string]struct{},
) ([]entity.Deal, error) {
	fresh := lo.Filter(candidates, func(c entity.Candidate, _ int) bool {
		_, known := knownURLs[c.URL]
		return !known
	})

	if len(fresh) == 0 {
		logger(ctx).Info("no fresh candidates", slog.Int("candidates", len(candidates)))
		return nil, nil
	}

	var reply selection
	if err := s.llm.CompleteJSON(ctx, s.prompt(fresh), s.schema(), &reply); err != nil {
		return nil, domain.WrapError(err, errcodes.ExtractionFailed, "select deals")
	}

	deals := make([]entity.Deal, 0, len(reply.Deals))
	seen := make(map[string]struct{}, len(reply.Deals))

	for _, selected := range reply.Deals {
		deal := entity.NewDeal(selected.ProductDescription, selected.Price, selected.URL)

		if err := deal.Validate(); err != nil {
			logger(ctx).Warn(
				"deal dropped",
				slog.String(logx.FieldDealURL, deal.URL),
				slog.Float64("price", deal.Price),
				logx.Error(err),
			)
			continue
		}

		if _, known := knownURLs[deal.URL]; known {
			continue
		}

		if _, dup := seen[deal.URL]; dup {
			continue
		}

		seen[deal.URL] = struct{}{}
		deals = append(deals, deal)
	}

	logger(ctx).Info(
		"deals selected",
		slog.Int("fresh", len(fresh)),
		slog.Int("returned", len(reply.Deals)),
		slog.Int("accepted", len(deals)),
	)

	return deals, nil
}

func (s *Scanner) prompt(candidates []entity.Candidate) value.Prompt {
	var b strings.Builder

	fmt.Fprintf(&b, userPromptPrefix, s.dealCount)

	for _, c := range candidates {
		b.WriteString(c.Describe())
		b.WriteString("\n\n")
	}

	fmt.Fprintf(&b, userPromptSuffix, s.dealCount)

	return value.Prompt{
		System: systemPrompt,
		User:   b.String(),
	}
}

func (s *Scanner) schema() *value.Schema {
	count := int64(s.dealCount)

	return &value.Schema{
		Name:        "deal_selection",
		Type:        value.TypeObject,
		Description: "Deals selected from the listings",
		Properties: map[string]*value.Schema{
			"deals": {
				Type:     value.TypeArray,
				MinItems: &count,
				MaxItems: &count,
				Items: &value.Schema{
					Type: value.TypeObject,
					Properties: map[string]*value.Schema{
						"product_description": {
							Type:        value.TypeString,
							Description: "Summary of the product itself, not the terms of the deal",
						},
						"price": {
							Type:        value.TypeNumber,
							Description: "Actual price of the product in USD",
						},
						"url": {
							Type:        value.TypeString,
							Description: "URL of the listing as provided",
						},
					},
					Order: []string{"product_description", "price", "url"},
				},
			},
		},
	}
}
