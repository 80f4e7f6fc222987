// Package model defines shared data structures.
package model

import (
	"strconv"
	"time"
)

// Feedback is the post-resolution indicator shown for a turn.
type Feedback int

const (
	FeedbackNone Feedback = iota
	FeedbackCorrect
	FeedbackIncorrect
)

// String returns a lower-case label for the feedback state.
func (f Feedback) String() string {
	switch f {
	case FeedbackCorrect:
		return "correct"
	case FeedbackIncorrect:
		return "incorrect"
	default:
		return "none"
	}
}

// Question is a single generated arithmetic problem.
type Question struct {
	Num1      int
	Num2      int
	Operation Operation
	Answer    int
}

// String renders the question as "a op b".
func (q Question) String() string {
	return strconv.Itoa(q.Num1) + " " + q.Operation.Symbol() + " " + strconv.Itoa(q.Num2)
}

// Score tallies resolved turns in a session.
type Score struct {
	Correct   int
	Incorrect int
}

// Total returns the number of resolved turns.
func (s Score) Total() int {
	return s.Correct + s.Incorrect
}

// Accuracy returns the correct share in [0,1], or 0 when nothing was answered.
func (s Score) Accuracy() float64 {
	total := s.Total()
	if total == 0 {
		return 0
	}
	return float64(s.Correct) / float64(total)
}

// TurnResult captures one resolved turn.
type TurnResult struct {
	SessionID    string
	Turn         int
	Question     Question
	Input        string
	Correct      bool
	TimedOut     bool
	ResponseTime time.Duration
	ResolvedAt   time.Time
}

// SessionInfo describes a session when it starts.
type SessionInfo struct {
	ID        string
	StartedAt time.Time
	Settings  Settings
}

// OperationAggregate summarizes turns for one operation.
type OperationAggregate struct {
	Operation     Operation
	Correct       int
	Incorrect     int
	TimedOut      int
	ResponseSumMs int64
	ResponseCount int64
}

// Total returns the number of turns played for the operation.
func (a OperationAggregate) Total() int {
	return a.Correct + a.Incorrect
}

// Accuracy returns the correct share, or 1 when the operation was never played.
func (a OperationAggregate) Accuracy() float64 {
	total := a.Total()
	if total == 0 {
		return 1.0
	}
	return float64(a.Correct) / float64(total)
}

// AvgResponseMs returns the mean response time in milliseconds.
func (a OperationAggregate) AvgResponseMs() float64 {
	if a.ResponseCount == 0 {
		return 0
	}
	return float64(a.ResponseSumMs) / float64(a.ResponseCount)
}
