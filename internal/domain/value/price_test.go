package value_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"deal_scout/internal/domain/value"
)

func TestExtractFirstNumber(t *testing.T) {
	testCases := []struct {
		name   string
		input  string
		number float64
		found  bool
	}{
		{name: "Plain integer", input: "899", number: 899, found: true},
		{name: "Dollar sign and separator", input: "$1,299.99", number: 1299.99, found: true},
		{name: "Continuation after prefill", input: "249.00 and that's it", number: 249, found: true},
		{name: "Sentence", input: "I think it costs about 42 dollars", number: 42, found: true},
		{name: "Leading dot", input: "Price is $.99", number: 0.99, found: true},
		{name: "Negative decimal", input: "-3.5", number: -3.5, found: true},
		{name: "First of several", input: "between 100 and 200", number: 100, found: true},
		{name: "No number", input: "I cannot tell", number: 0, found: false},
		{name: "Empty", input: "", number: 0, found: false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			number, found := value.ExtractFirstNumber(tc.input)
			rq.Equal(tc.found, found)
			rq.InDelta(tc.number, number, 1e-9)
		})
	}
}

func TestPriceOrZero(t *testing.T) {
	rq := require.New(t)

	rq.InDelta(0.0, value.PriceOrZero("no idea"), 1e-9)
	rq.InDelta(650.0, value.PriceOrZero("$650"), 1e-9)
}
