package report

import (
	"encoding/json"
	"math"
)

// WineIndex resolves wine references to canonical blind numbers. A single
// index is built per report so that wineId and blindNumber references land
// on the same row.
type WineIndex struct {
	byID    map[string]int
	byBlind map[int]Wine
}

func NewWineIndex(wines []Wine) *WineIndex {
	idx := &WineIndex{
		byID:    make(map[string]int, len(wines)),
		byBlind: make(map[int]Wine, len(wines)),
	}
	for _, w := range wines {
		if w.BlindNumber == nil || *w.BlindNumber <= 0 {
			continue
		}
		n := *w.BlindNumber
		// first slot wins when storage holds a duplicate blind number
		if _, taken := idx.byBlind[n]; taken {
			continue
		}
		idx.byBlind[n] = w
		if w.ID != "" {
			idx.byID[w.ID] = n
		}
	}
	return idx
}

// Resolve maps a rating's wine reference to a blind number. The wine id wins
// when it is known; otherwise the rating's own blind number is used, even
// when no slot carries it.
func (x *WineIndex) Resolve(wineID string, blindNumber *int) (int, bool) {
	if wineID != "" {
		if n, ok := x.byID[wineID]; ok {
			return n, true
		}
	}
	if blindNumber != nil && *blindNumber > 0 {
		return *blindNumber, true
	}
	return 0, false
}

// Wine returns the slot holding blind number n.
func (x *WineIndex) Wine(n int) (Wine, bool) {
	w, ok := x.byBlind[n]
	return w, ok
}

// Normalize converts raw rating records into strict ratings. Ratings whose
// wine cannot be resolved, whose scores are not an object, or that hold a
// non-numeric value under a known criterion are dropped and counted. Unknown
// keys (whatever their value), nulls and non-finite numbers are ignored
// without dropping the rating.
func Normalize(criteria []Criterion, index *WineIndex, raw []RawRating) ([]Rating, int) {
	known := make(map[string]struct{}, len(criteria))
	for _, c := range criteria {
		known[c.ID] = struct{}{}
	}

	ratings := make([]Rating, 0, len(raw))
	dropped := 0
	for _, r := range raw {
		blind, ok := index.Resolve(r.WineID, r.BlindNumber)
		if !ok {
			dropped++
			continue
		}
		scores, ok := parseScores(r.Scores, known)
		if !ok {
			dropped++
			continue
		}
		ratings = append(ratings, Rating{
			ID:            r.ID,
			ParticipantID: r.ParticipantID,
			BlindNumber:   blind,
			Scores:        scores,
		})
	}
	return ratings, dropped
}

func parseScores(raw any, known map[string]struct{}) (map[string]float64, bool) {
	out := make(map[string]float64)
	switch m := raw.(type) {
	case nil:
		return out, true
	case map[string]float64:
		for k, v := range m {
			keep(out, known, k, v)
		}
		return out, true
	case map[string]any:
		for k, v := range m {
			if _, ok := known[k]; !ok || v == nil {
				continue
			}
			f, ok := toFloat(v)
			if !ok {
				return nil, false
			}
			keep(out, known, k, f)
		}
		return out, true
	default:
		return nil, false
	}
}

func keep(out map[string]float64, known map[string]struct{}, key string, v float64) {
	if _, ok := known[key]; !ok {
		return
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	out[key] = v
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	}
	return 0, false
}
