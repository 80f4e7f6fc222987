package model

import (
	"errors"
	"time"
)

// MaxDigits bounds operand width so products of two operands fit in an int64.
const MaxDigits = 9

// Validation errors reported before a session may start.
var (
	ErrNoOperations  = errors.New("at least one operation must be selected")
	ErrInvalidTime   = errors.New("time per question must be greater than 0")
	ErrInvalidDigits = errors.New("digits must be between 1 and 9")
	ErrInvalidPause  = errors.New("feedback pause must be >= 0")
)

// Settings configures a practice session.
type Settings struct {
	Operations      []Operation
	TimePerQuestion time.Duration
	Digits          int
}

// Has reports whether op is enabled.
func (s Settings) Has(op Operation) bool {
	for _, o := range s.Operations {
		if o == op {
			return true
		}
	}
	return false
}

// Validate checks the settings and returns every violation joined together.
func (s Settings) Validate() error {
	var errs []error
	if len(NormalizeOperations(s.Operations)) == 0 {
		errs = append(errs, ErrNoOperations)
	}
	if s.TimePerQuestion <= 0 {
		errs = append(errs, ErrInvalidTime)
	}
	if s.Digits <= 0 || s.Digits > MaxDigits {
		errs = append(errs, ErrInvalidDigits)
	}
	return errors.Join(errs...)
}

// Normalized returns a copy with a deduplicated, canonically ordered operation set.
func (s Settings) Normalized() Settings {
	s.Operations = NormalizeOperations(s.Operations)
	return s
}

// SecondsToDuration converts fractional seconds into a duration.
func SecondsToDuration(seconds float64) time.Duration {
	return time.Duration(seconds * float64(time.Second))
}

// Config defines the practice settings collected from flags and the config file.
type Config struct {
	Operations      string
	TimeSeconds     float64
	Digits          int
	FeedbackPauseMs int
}

// Settings converts the raw config into validated session settings.
func (c Config) Settings() (Settings, error) {
	ops, err := ParseOperations(c.Operations)
	if err != nil {
		return Settings{}, err
	}
	s := Settings{
		Operations:      ops,
		TimePerQuestion: SecondsToDuration(c.TimeSeconds),
		Digits:          c.Digits,
	}
	errs := []error{s.Validate()}
	if c.FeedbackPauseMs < 0 {
		errs = append(errs, ErrInvalidPause)
	}
	if err := errors.Join(errs...); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// FeedbackPause returns the configured feedback pause.
func (c Config) FeedbackPause() time.Duration {
	return time.Duration(c.FeedbackPauseMs) * time.Millisecond
}
