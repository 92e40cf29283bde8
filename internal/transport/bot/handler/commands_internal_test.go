package handler

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseThreshold(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want float64
		ok   bool
	}{
		{name: "integer", raw: "150", want: 150, ok: true},
		{name: "dollar prefix", raw: "$75.5", want: 75.5, ok: true},
		{name: "zero", raw: "0", ok: false},
		{name: "negative", raw: "-10", ok: false},
		{name: "garbage", raw: "lots", ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			got, ok := parseThreshold(tt.raw)

			rq.Equal(tt.ok, ok)
			rq.InDelta(tt.want, got, 1e-9)
		})
	}
}

func TestPaginate(t *testing.T) {
	tests := []struct {
		name                            string
		total, page                     int
		start, end, clamped, totalPages int
	}{
		{name: "first page", total: 12, page: 1, start: 0, end: 5, clamped: 1, totalPages: 3},
		{name: "last partial page", total: 12, page: 3, start: 10, end: 12, clamped: 3, totalPages: 3},
		{name: "past the end", total: 12, page: 9, start: 10, end: 12, clamped: 3, totalPages: 3},
		{name: "below one", total: 4, page: 0, start: 0, end: 4, clamped: 1, totalPages: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rq := require.New(t)

			start, end, clamped, totalPages := paginate(tt.total, tt.page, recentPageSize)

			rq.Equal(tt.start, start)
			rq.Equal(tt.end, end)
			rq.Equal(tt.clamped, clamped)
			rq.Equal(tt.totalPages, totalPages)
		})
	}
}

func TestPaginationKeyboard(t *testing.T) {
	rq := require.New(t)

	rq.Nil(paginationKeyboard(1, 1))

	kb := paginationKeyboard(2, 3)
	rq.Len(kb.InlineKeyboard, 1)

	row := kb.InlineKeyboard[0]
	rq.Len(row, 3)
	rq.Equal("recent_page:1", row[0].CallbackData)
	rq.Equal("2 / 3", row[1].Text)
	rq.Equal("recent_page:3", row[2].CallbackData)
}
