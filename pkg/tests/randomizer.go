package tests

import (
	"fmt"
	"math"
	"math/rand"
	"time"
)

type Randomizer struct {
	random *rand.Rand
}

func NewRandomizer() Randomizer {
	return Randomizer{
		random: rand.New(rand.NewSource(time.Now().UnixNano())), //nolint:gosec // for tests
	}
}

// Price returns a value in [low, high) rounded to cents.
func (r Randomizer) Price(low, high float64) float64 {
	return math.Round((low+r.random.Float64()*(high-low))*100) / 100 //nolint:mnd // cents
}

// DealURL returns a unique looking product link.
func (r Randomizer) DealURL() string {
	return fmt.Sprintf("https://www.dealnews.com/products/%d.html", r.random.Int63())
}
