// Package stats contains statistics calculations and reporting.
package stats

import (
	"context"
	"fmt"
	"time"

	"github.com/verte-zerg/mathrun/internal/model"
	"github.com/verte-zerg/mathrun/internal/store"
)

// Report contains precomputed data for summary rendering.
type Report struct {
	SessionID     string
	Settings      model.Settings
	Score         model.Score
	Duration      time.Duration
	Operations    []model.OperationAggregate
	ResponseTimes []float64
}

// TimedOut returns how many turns ran out of time.
func (r Report) TimedOut() int {
	n := 0
	for _, agg := range r.Operations {
		n += agg.TimedOut
	}
	return n
}

// BuildReport loads and prepares data for a session summary.
func BuildReport(ctx context.Context, st *store.Store, sessionID string) (Report, error) {
	sess, err := st.GetSession(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}
	if sess == nil {
		return Report{}, fmt.Errorf("session %s not found", sessionID)
	}
	turns, err := st.ListTurns(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}
	aggs, err := st.OperationAggregates(ctx, sessionID)
	if err != nil {
		return Report{}, err
	}

	end := sess.StartedAt
	if sess.EndedAt != nil {
		end = *sess.EndedAt
	} else if len(turns) > 0 {
		end = turns[len(turns)-1].ResolvedAt
	}

	return Report{
		SessionID:     sess.ID,
		Settings:      sess.Settings,
		Score:         scoreFromTurns(turns),
		Duration:      end.Sub(sess.StartedAt),
		Operations:    fillOperations(sess.Settings.Operations, aggs),
		ResponseTimes: responseTimes(turns),
	}, nil
}

func scoreFromTurns(turns []model.TurnResult) model.Score {
	var score model.Score
	for _, t := range turns {
		if t.Correct {
			score.Correct++
		} else {
			score.Incorrect++
		}
	}
	return score
}

// fillOperations adds empty rows for enabled operations that never came up.
func fillOperations(enabled []model.Operation, aggs []model.OperationAggregate) []model.OperationAggregate {
	byOp := make(map[model.Operation]model.OperationAggregate, len(aggs))
	for _, agg := range aggs {
		byOp[agg.Operation] = agg
	}
	ops := model.NormalizeOperations(enabled)
	for _, agg := range aggs {
		ops = append(ops, agg.Operation)
	}
	ops = model.NormalizeOperations(ops)
	out := make([]model.OperationAggregate, 0, len(ops))
	for _, op := range ops {
		agg, ok := byOp[op]
		if !ok {
			agg = model.OperationAggregate{Operation: op}
		}
		out = append(out, agg)
	}
	return out
}

func responseTimes(turns []model.TurnResult) []float64 {
	out := make([]float64, len(turns))
	for i, t := range turns {
		out[i] = float64(t.ResponseTime.Milliseconds())
	}
	return out
}
