package value

import (
	"regexp"
	"strconv"
	"strings"
)

//nolint:gochecknoglobals
var (
	numberPattern  = regexp.MustCompile(`[-+]?\d*\.\d+|\d+`)
	priceDecorator = strings.NewReplacer("$", "", ",", "")
)

// ExtractFirstNumber returns the first number found in a model reply.
// Currency signs and thousands separators are ignored, so "$1,299.99" is 1299.99.
func ExtractFirstNumber(text string) (float64, bool) {
	match := numberPattern.FindString(priceDecorator.Replace(text))
	if match == "" {
		return 0, false
	}

	number, err := strconv.ParseFloat(match, 64)
	if err != nil {
		return 0, false
	}

	return number, true
}

// PriceOrZero is ExtractFirstNumber with a 0.0 fallback.
func PriceOrZero(text string) float64 {
	price, _ := ExtractFirstNumber(text)
	return price
}
