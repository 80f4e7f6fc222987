package model

import (
	"fmt"
	"sort"
	"strings"
)

// Operation is one of the supported arithmetic operators.
type Operation int

const (
	Addition Operation = iota
	Subtraction
	Multiplication
	Division
)

// AllOperations lists every operation in canonical order.
var AllOperations = []Operation{Addition, Subtraction, Multiplication, Division}

// Symbol returns the display symbol for the operation.
func (o Operation) Symbol() string {
	switch o {
	case Addition:
		return "+"
	case Subtraction:
		return "-"
	case Multiplication:
		return "×"
	case Division:
		return "÷"
	default:
		return "?"
	}
}

// String returns the operation name.
func (o Operation) String() string {
	switch o {
	case Addition:
		return "addition"
	case Subtraction:
		return "subtraction"
	case Multiplication:
		return "multiplication"
	case Division:
		return "division"
	default:
		return fmt.Sprintf("operation(%d)", int(o))
	}
}

// Valid reports whether o is a known operation.
func (o Operation) Valid() bool {
	return o >= Addition && o <= Division
}

// Apply computes a op b. Division truncates; callers only divide exact multiples.
func (o Operation) Apply(a, b int) int {
	switch o {
	case Subtraction:
		return a - b
	case Multiplication:
		return a * b
	case Division:
		if b == 0 {
			return 0
		}
		return a / b
	default:
		return a + b
	}
}

// ParseOperation accepts a symbol or a name.
func ParseOperation(s string) (Operation, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "+", "add", "addition", "plus":
		return Addition, nil
	case "-", "sub", "subtraction", "minus":
		return Subtraction, nil
	case "*", "x", "×", "mul", "multiplication", "times":
		return Multiplication, nil
	case "/", "÷", ":", "div", "division":
		return Division, nil
	default:
		return 0, fmt.Errorf("unknown operation %q", s)
	}
}

// ParseOperations parses a comma-separated list such as "+,-,x".
func ParseOperations(s string) ([]Operation, error) {
	parts := strings.Split(s, ",")
	ops := make([]Operation, 0, len(parts))
	for _, part := range parts {
		if strings.TrimSpace(part) == "" {
			continue
		}
		op, err := ParseOperation(part)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	return NormalizeOperations(ops), nil
}

// FormatOperations renders operations as a comma-separated symbol list.
func FormatOperations(ops []Operation) string {
	symbols := make([]string, len(ops))
	for i, op := range ops {
		symbols[i] = op.Symbol()
	}
	return strings.Join(symbols, ",")
}

// NormalizeOperations drops duplicates and unknown values and sorts canonically.
func NormalizeOperations(ops []Operation) []Operation {
	seen := make(map[Operation]struct{}, len(ops))
	out := make([]Operation, 0, len(ops))
	for _, op := range ops {
		if !op.Valid() {
			continue
		}
		if _, ok := seen[op]; ok {
			continue
		}
		seen[op] = struct{}{}
		out = append(out, op)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
