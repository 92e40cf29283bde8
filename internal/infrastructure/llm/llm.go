// Package llm adapts hosted language model APIs to the completer, embedder
// and generator ports of the estimators and the scanner.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	jsoniter "github.com/json-iterator/go"

	"deal_scout/internal/domain"
	"deal_scout/pkg/contextx"
	"deal_scout/pkg/errcodes"
	"deal_scout/pkg/retry"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

var logger = contextx.LoggerFromContextOrDefault //nolint:gochecknoglobals

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals

// classify maps a provider failure to an error code. Rate limits, timeouts
// and server errors stay retryable, every other rejection is permanent.
func classify(ctx context.Context, err error, status int, op string) error {
	if ctx.Err() != nil {
		return retry.Permanent(err)
	}

	switch {
	case status == 0:
		return domain.WrapError(err, errcodes.ProviderUnavailable, op)
	case transientStatus(status):
		return domain.WrapError(err, errcodes.ProviderUnavailable, fmt.Sprintf("%s: status %d", op, status))
	default:
		return retry.Permanent(domain.WrapError(err, errcodes.ProviderRejected, fmt.Sprintf("%s: status %d", op, status)))
	}
}

func transientStatus(status int) bool {
	return status == http.StatusRequestTimeout ||
		status == http.StatusTooManyRequests ||
		status >= http.StatusInternalServerError
}

// decodeStructured parses a JSON reply into dest and validates it.
func decodeStructured(content string, dest any) error {
	content = stripFences(content)
	if content == "" {
		return domain.NewError(errcodes.MalformedResponse, "empty structured reply")
	}

	if err := json.Unmarshal([]byte(content), dest); err != nil {
		return domain.WrapError(fmt.Errorf("json.Unmarshal: %w", err), errcodes.MalformedResponse, "decode structured reply")
	}

	if err := validate.Struct(dest); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			return nil
		}
		return domain.WrapError(fmt.Errorf("validate.Struct: %w", err), errcodes.MalformedResponse, "validate structured reply")
	}

	return nil
}

// stripFences removes a markdown code fence some models wrap JSON in.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
