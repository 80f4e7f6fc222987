package generator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verte-zerg/mathrun/internal/model"
)

const rounds = 2000

func settingsFor(digits int, ops ...model.Operation) model.Settings {
	return model.Settings{Operations: ops, TimePerQuestion: 3 * time.Second, Digits: digits}
}

func TestBounds(t *testing.T) {
	cases := []struct {
		digits int
		lo, hi int
	}{
		{1, 0, 9},
		{2, 10, 99},
		{3, 100, 999},
	}
	for _, tc := range cases {
		lo, hi := Bounds(tc.digits)
		assert.Equal(t, tc.lo, lo, "lo for %d digits", tc.digits)
		assert.Equal(t, tc.hi, hi, "hi for %d digits", tc.digits)
	}
}

func TestGenerateOperationFromSettings(t *testing.T) {
	g := NewWithSeed(1)
	s := settingsFor(2, model.Subtraction, model.Division)
	seen := map[model.Operation]int{}
	for i := 0; i < rounds; i++ {
		q := g.Generate(s)
		require.True(t, s.Has(q.Operation), "unexpected operation %v", q.Operation)
		seen[q.Operation]++
	}
	assert.NotZero(t, seen[model.Subtraction])
	assert.NotZero(t, seen[model.Division])
}

func TestGenerateSubtractionNeverNegative(t *testing.T) {
	g := NewWithSeed(2)
	for digits := 1; digits <= 4; digits++ {
		for i := 0; i < rounds; i++ {
			q := g.Generate(settingsFor(digits, model.Subtraction))
			require.GreaterOrEqual(t, q.Num1, q.Num2)
			require.GreaterOrEqual(t, q.Answer, 0)
			require.Equal(t, q.Num1-q.Num2, q.Answer)
		}
	}
}

func TestGenerateDivisionIsExact(t *testing.T) {
	g := NewWithSeed(3)
	for digits := 1; digits <= 5; digits++ {
		lo, hi := Bounds(digits)
		for i := 0; i < rounds; i++ {
			q := g.Generate(settingsFor(digits, model.Division))
			require.GreaterOrEqual(t, q.Num2, 2)
			require.LessOrEqual(t, q.Num2, 10)
			require.Equal(t, q.Num1, q.Answer*q.Num2, "%s = %d", q, q.Answer)
			require.GreaterOrEqual(t, q.Num1, lo)
			require.LessOrEqual(t, q.Num1, hi)
		}
	}
}

func TestGenerateAdditionAndMultiplication(t *testing.T) {
	g := NewWithSeed(4)
	for digits := 1; digits <= model.MaxDigits; digits++ {
		for i := 0; i < 200; i++ {
			q := g.Generate(settingsFor(digits, model.Addition, model.Multiplication))
			switch q.Operation {
			case model.Addition:
				require.Equal(t, q.Num1+q.Num2, q.Answer)
			case model.Multiplication:
				require.Equal(t, q.Num1*q.Num2, q.Answer)
			default:
				t.Fatalf("unexpected operation %v", q.Operation)
			}
		}
	}
}

func TestGenerateSingleDigitAddition(t *testing.T) {
	g := New()
	for i := 0; i < rounds; i++ {
		q := g.Generate(settingsFor(1, model.Addition))
		require.Equal(t, model.Addition, q.Operation)
		require.True(t, q.Num1 >= 0 && q.Num1 <= 9, "num1 %d out of range", q.Num1)
		require.True(t, q.Num2 >= 0 && q.Num2 <= 9, "num2 %d out of range", q.Num2)
		require.Equal(t, q.Num1+q.Num2, q.Answer)
	}
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	s := settingsFor(3, model.AllOperations...)
	a := NewWithSeed(42)
	b := NewWithSeed(42)
	for i := 0; i < 50; i++ {
		require.Equal(t, a.Generate(s), b.Generate(s))
	}
}
