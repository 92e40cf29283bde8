package persistence

import (
	"deal_scout/internal/domain/entity"
)

// dealSchema и opportunitySchema задают формат файла памяти.
type dealSchema struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
}

type opportunitySchema struct {
	Deal     dealSchema `json:"deal"`
	Estimate float64    `json:"estimate"`
	Discount float64    `json:"discount"`
}

func fromOpportunity(o entity.Opportunity) opportunitySchema {
	return opportunitySchema{
		Deal: dealSchema{
			Description: o.Deal.Description,
			Price:       o.Deal.Price,
			URL:         o.Deal.URL,
		},
		Estimate: o.Estimate,
		Discount: o.Discount,
	}
}

func (s opportunitySchema) toDomain() entity.Opportunity {
	return entity.Opportunity{
		Deal: entity.Deal{
			Description: s.Deal.Description,
			Price:       s.Deal.Price,
			URL:         s.Deal.URL,
		},
		Estimate: s.Estimate,
		Discount: s.Discount,
	}
}

// opportunityRow - строка таблицы opportunities во встроенной БД.
type opportunityRow struct {
	URL         string  `db:"url"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Estimate    float64 `db:"estimate"`
	Discount    float64 `db:"discount"`
}

func fromOpportunityRow(o entity.Opportunity) opportunityRow {
	return opportunityRow{
		URL:         o.Deal.URL,
		Description: o.Deal.Description,
		Price:       o.Deal.Price,
		Estimate:    o.Estimate,
		Discount:    o.Discount,
	}
}

func (r opportunityRow) toDomain() entity.Opportunity {
	return entity.Opportunity{
		Deal: entity.Deal{
			Description: r.Description,
			Price:       r.Price,
			URL:         r.URL,
		},
		Estimate: r.Estimate,
		Discount: r.Discount,
	}
}

// itemSchema - строка таблицы items с векторами описаний.
type itemSchema struct {
	ID          int64   `db:"id"`
	Description string  `db:"description"`
	Price       float64 `db:"price"`
	Category    string  `db:"category"`
	Similarity  float64 `db:"similarity"`
}

func (s itemSchema) toDomain() entity.Item {
	return entity.Item{
		Description: s.Description,
		Price:       s.Price,
		Category:    s.Category,
		Similarity:  s.Similarity,
	}
}
