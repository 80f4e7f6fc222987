package stats

import (
	"sort"

	"github.com/verte-zerg/mathrun/internal/model"
)

// SelectWeakOperations returns up to top played operations with imperfect
// accuracy, weakest first. Ties go to the slower operation.
func SelectWeakOperations(aggs []model.OperationAggregate, top int) []model.Operation {
	candidates := make([]model.OperationAggregate, 0, len(aggs))
	for _, agg := range aggs {
		if agg.Total() > 0 && agg.Accuracy() < 1 {
			candidates = append(candidates, agg)
		}
	}
	sort.Slice(candidates, func(i, j int) bool {
		ai, aj := candidates[i].Accuracy(), candidates[j].Accuracy()
		if ai == aj {
			ri, rj := candidates[i].AvgResponseMs(), candidates[j].AvgResponseMs()
			if ri == rj {
				return candidates[i].Operation < candidates[j].Operation
			}
			return ri > rj
		}
		return ai < aj
	})
	if top <= 0 || top > len(candidates) {
		top = len(candidates)
	}
	out := make([]model.Operation, 0, top)
	for _, agg := range candidates[:top] {
		out = append(out, agg.Operation)
	}
	return out
}
