package entity

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"deal_scout/internal/domain"
	"deal_scout/pkg/errcodes"
)

var validate = validator.New(validator.WithRequiredStructEnabled()) //nolint:gochecknoglobals // skip

// Deal - кандидат, прошедший отбор моделью. Не изменяется после создания.
type Deal struct {
	Description string  `validate:"required"`
	Price       float64 `validate:"gt=0"`
	URL         string  `validate:"required,url"`
}

func NewDeal(description string, price float64, url string) Deal {
	return Deal{
		Description: strings.TrimSpace(description),
		Price:       price,
		URL:         strings.TrimSpace(url),
	}
}

// Validate rejects deals without a description, URL or positive price.
func (d Deal) Validate() error {
	if err := validate.Struct(d); err != nil {
		return domain.WrapError(
			fmt.Errorf("validate.Struct: %w", err),
			errcodes.InvalidDeal,
			"invalid deal",
		)
	}

	return nil
}
