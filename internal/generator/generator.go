// Package generator builds arithmetic questions.
package generator

import (
	"math/rand"
	"time"

	"github.com/verte-zerg/mathrun/internal/model"
)

const (
	minDivisor = 2
	maxDivisor = 10
)

// Generator produces randomized arithmetic questions.
type Generator struct {
	rnd *rand.Rand
}

// New returns a Generator seeded with the current time.
func New() *Generator {
	return NewWithSeed(time.Now().UnixNano())
}

// NewWithSeed returns a Generator with a reproducible sequence.
func NewWithSeed(seed int64) *Generator {
	return &Generator{rnd: rand.New(rand.NewSource(seed))}
}

// Generate picks an operation uniformly from settings and builds a question for it.
// Settings must be valid.
func (g *Generator) Generate(settings model.Settings) model.Question {
	op := settings.Operations[g.rnd.Intn(len(settings.Operations))]
	lo, hi := Bounds(settings.Digits)
	num1 := g.between(lo, hi)
	num2 := g.between(lo, hi)

	switch op {
	case model.Subtraction:
		if num1 < num2 {
			num1, num2 = num2, num1
		}
	case model.Division:
		num1, num2 = g.division(lo, hi)
	}
	return model.Question{
		Num1:      num1,
		Num2:      num2,
		Operation: op,
		Answer:    op.Apply(num1, num2),
	}
}

// Bounds returns the inclusive operand range for a digit width.
func Bounds(digits int) (lo, hi int) {
	hi = pow10(digits) - 1
	if digits > 1 {
		lo = pow10(digits - 1)
	}
	return lo, hi
}

// division returns a dividend that is an exact multiple of a divisor in [2,10].
func (g *Generator) division(lo, hi int) (dividend, divisor int) {
	divisor = g.between(minDivisor, maxDivisor)
	kLo := (lo + divisor - 1) / divisor
	kHi := hi / divisor
	if kLo > kHi {
		kLo = kHi
	}
	dividend = g.between(kLo, kHi) * divisor
	if dividend == 0 && lo > 0 {
		dividend = lo * divisor
	}
	return dividend, divisor
}

func (g *Generator) between(lo, hi int) int {
	return lo + g.rnd.Intn(hi-lo+1)
}

func pow10(n int) int {
	v := 1
	for i := 0; i < n; i++ {
		v *= 10
	}
	return v
}
