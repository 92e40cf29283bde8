// Типы HTTP API. Поля совпадают с форматом файла памяти.
package rest

import "time"

type Deal struct {
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	URL         string  `json:"url"`
}

type Opportunity struct {
	Deal     Deal    `json:"deal"`
	Estimate float64 `json:"estimate"`
	Discount float64 `json:"discount"`
}

type OpportunityList struct {
	Items []Opportunity `json:"items"`
	Count int           `json:"count"`
}

type RunStats struct {
	TraceID       string    `json:"traceId"`
	StartedAt     time.Time `json:"startedAt"`
	DurationMs    int64     `json:"durationMs"`
	Candidates    int       `json:"candidates"`
	Deals         int       `json:"deals"`
	Skipped       int       `json:"skipped"`
	Opportunities int       `json:"opportunities"`
	Error         string    `json:"error,omitempty"`
}

type Status struct {
	State     string    `json:"state"`
	Threshold float64   `json:"threshold"`
	LastRun   *RunStats `json:"lastRun,omitempty"`
}

// ScanResult is returned by a synchronous scan; an asynchronous one only
// carries TaskID.
type ScanResult struct {
	TaskID        string        `json:"taskId,omitempty"`
	Opportunities []Opportunity `json:"opportunities"`
}

type Threshold struct {
	Value float64 `json:"value" validate:"gt=0"`
}

// Error Модель ошибок
type Error struct {
	// Code Код ошибки
	Code ErrorCode `json:"code"`

	// Message Сообщение об ошибке (для отображения в UI в будущем)
	Message string `json:"message"`
}

// ErrorCode Код ошибки
type ErrorCode string
