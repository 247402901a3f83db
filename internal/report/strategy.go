package report

import (
	"errors"
	"fmt"
)

// Strategy selects how a wine's overall average is derived.
type Strategy string

const (
	// StrategyRatingMean averages each rating's own mean over the scores it
	// provides, then averages those means across ratings.
	StrategyRatingMean Strategy = "rating_mean"
	// StrategyWeightedCriteria combines the per-criterion averages using the
	// criterion weights.
	StrategyWeightedCriteria Strategy = "weighted_criteria"
)

var ErrUnknownStrategy = errors.New("unknown report strategy")

func ParseStrategy(s string) (Strategy, error) {
	switch Strategy(s) {
	case StrategyRatingMean, StrategyWeightedCriteria:
		return Strategy(s), nil
	case "":
		return StrategyRatingMean, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownStrategy, s)
}

// Aggregate accumulates the ratings of a single wine.
type Aggregate struct {
	CriterionSum   map[string]float64
	CriterionCount map[string]int
	RatingMeanSum  float64
	// Rated counts ratings carrying at least one score.
	Rated int
}

func newAggregate() *Aggregate {
	return &Aggregate{
		CriterionSum:   make(map[string]float64),
		CriterionCount: make(map[string]int),
	}
}

// Add folds a normalized rating into the aggregate. Ratings without scores
// leave it untouched.
func (a *Aggregate) Add(r Rating) {
	if len(r.Scores) == 0 {
		return
	}
	sum := 0.0
	for id, v := range sortedScores(r.Scores) {
		a.CriterionSum[id] += v
		a.CriterionCount[id]++
		sum += v
	}
	a.RatingMeanSum += sum / float64(len(r.Scores))
	a.Rated++
}

// CriterionAverages returns one entry per criterion, nil when nothing was
// scored for it.
func (a *Aggregate) CriterionAverages(criteria []Criterion) map[string]*float64 {
	out := make(map[string]*float64, len(criteria))
	for _, c := range criteria {
		n := a.CriterionCount[c.ID]
		if n == 0 {
			out[c.ID] = nil
			continue
		}
		avg := a.CriterionSum[c.ID] / float64(n)
		out[c.ID] = &avg
	}
	return out
}

// Overall computes the wine's overall average under the strategy.
func (s Strategy) Overall(a *Aggregate, criteria []Criterion) (*float64, error) {
	switch s {
	case StrategyRatingMean:
		return RatingMeanOverall(a), nil
	case StrategyWeightedCriteria:
		return WeightedOverall(a.CriterionAverages(criteria), criteria), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, string(s))
}

// RatingMeanOverall is the mean of per-rating means.
func RatingMeanOverall(a *Aggregate) *float64 {
	if a.Rated == 0 {
		return nil
	}
	avg := a.RatingMeanSum / float64(a.Rated)
	return &avg
}

// WeightedOverall is sum(avg_c * w_c) / sum(w_c) over criteria with an
// average. Criteria with a non-positive weight do not participate.
func WeightedOverall(perCriterion map[string]*float64, criteria []Criterion) *float64 {
	num, den := 0.0, 0.0
	for _, c := range criteria {
		avg := perCriterion[c.ID]
		w := c.EffectiveWeight()
		if avg == nil || w <= 0 {
			continue
		}
		num += *avg * w
		den += w
	}
	if den == 0 {
		return nil
	}
	out := num / den
	return &out
}
