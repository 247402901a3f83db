package report

import (
	"cmp"
	"errors"
	"iter"
	"maps"
	"slices"
)

var ErrTastingNotFound = errors.New("tasting not found")

// Snapshot is everything read from storage for one report.
type Snapshot struct {
	Tasting  *Tasting
	Criteria []Criterion
	Wines    []Wine
	Ratings  []RawRating
}

// Row is the aggregate of one wine slot. Wine is nil for synthetic rows,
// created for blind numbers that only appear in ratings.
type Row struct {
	BlindNumber     int
	Wine            *Wine
	NRatings        int
	PerCriterionAvg map[string]*float64
	OverallAvg      *float64
	Rank            *int
}

func (r Row) Synthetic() bool { return r.Wine == nil }

type Report struct {
	Tasting  Tasting
	Strategy Strategy
	// Criteria is ordered by Order, ties kept in input order.
	Criteria []Criterion
	// Rows holds every slot ordered by blind number.
	Rows []Row
	// Ranking holds the rows with an overall average, best first.
	Ranking []Row
	// RatingCount is the number of ratings that survived normalization.
	RatingCount int
	Dropped     int
}

// Compute builds the report for a snapshot. It is deterministic: the same
// snapshot always yields the same report regardless of the order ratings
// were read in.
func Compute(s Snapshot, strategy Strategy) (Report, error) {
	if s.Tasting == nil {
		return Report{}, ErrTastingNotFound
	}
	if _, err := strategy.Overall(newAggregate(), nil); err != nil {
		return Report{}, err
	}

	criteria := slices.Clone(s.Criteria)
	slices.SortStableFunc(criteria, func(a, b Criterion) int { return cmp.Compare(a.Order, b.Order) })

	index := NewWineIndex(s.Wines)
	ratings, dropped := Normalize(criteria, index, s.Ratings)
	slices.SortStableFunc(ratings, compareRatings)

	aggs := make(map[int]*Aggregate)
	for n := range index.byBlind {
		aggs[n] = newAggregate()
	}
	for _, r := range ratings {
		agg, ok := aggs[r.BlindNumber]
		if !ok {
			agg = newAggregate()
			aggs[r.BlindNumber] = agg
		}
		agg.Add(r)
	}

	rows := make([]Row, 0, len(aggs))
	for _, n := range slices.Sorted(maps.Keys(aggs)) {
		agg := aggs[n]
		overall, err := strategy.Overall(agg, criteria)
		if err != nil {
			return Report{}, err
		}
		row := Row{
			BlindNumber:     n,
			NRatings:        agg.Rated,
			PerCriterionAvg: agg.CriterionAverages(criteria),
			OverallAvg:      overall,
		}
		if w, ok := index.Wine(n); ok {
			row.Wine = &w
		}
		rows = append(rows, row)
	}

	return Report{
		Tasting:     *s.Tasting,
		Strategy:    strategy,
		Criteria:    criteria,
		Rows:        rows,
		Ranking:     Rank(rows),
		RatingCount: len(ratings),
		Dropped:     dropped,
	}, nil
}

// Rank assigns ranks 1..N in place to rows with an overall average, sorted
// by average descending with ties broken by the lower blind number, and
// returns the ranked rows in rank order. Rows without an average keep a nil
// rank and are left out.
func Rank(rows []Row) []Row {
	order := make([]int, 0, len(rows))
	for i, r := range rows {
		rows[i].Rank = nil
		if r.OverallAvg != nil {
			order = append(order, i)
		}
	}
	slices.SortFunc(order, func(a, b int) int {
		if c := cmp.Compare(*rows[b].OverallAvg, *rows[a].OverallAvg); c != 0 {
			return c
		}
		return cmp.Compare(rows[a].BlindNumber, rows[b].BlindNumber)
	})

	ranking := make([]Row, 0, len(order))
	for pos, i := range order {
		rank := pos + 1
		rows[i].Rank = &rank
		ranking = append(ranking, rows[i])
	}
	return ranking
}

func compareRatings(a, b Rating) int {
	return cmp.Or(
		cmp.Compare(a.BlindNumber, b.BlindNumber),
		cmp.Compare(a.ParticipantID, b.ParticipantID),
		cmp.Compare(a.ID, b.ID),
	)
}

func sortedScores(m map[string]float64) iter.Seq2[string, float64] {
	keys := slices.Sorted(maps.Keys(m))
	return func(yield func(string, float64) bool) {
		for _, k := range keys {
			if !yield(k, m[k]) {
				return
			}
		}
	}
}
