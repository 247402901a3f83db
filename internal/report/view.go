package report

import (
	"math"

	"github.com/shopspring/decimal"
)

// Audience decides whether wine identity is gated on the reveal.
type Audience int

const (
	AudiencePublic Audience = iota
	AudienceAdmin
)

// WineView is the serialized form of a wine slot. Identity fields are left
// out for public viewers until the tasting is revealed.
type WineView struct {
	ID          string  `json:"id,omitempty"`
	BlindNumber *int    `json:"blindNumber"`
	IsActive    bool    `json:"isActive"`
	ServeOrder  *int    `json:"serveOrder,omitempty"`
	Winery      *string `json:"winery,omitempty"`
	Grape       *string `json:"grape,omitempty"`
	Vintage     *string `json:"vintage,omitempty"`
	OwnerName   *string `json:"ownerName,omitempty"`
	DisplayName *string `json:"displayName,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	ImagePath   *string `json:"imagePath,omitempty"`
}

type CriterionView struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Order    int      `json:"order"`
	ScaleMin float64  `json:"scaleMin"`
	ScaleMax float64  `json:"scaleMax"`
	Weight   *float64 `json:"weight,omitempty"`
}

type RowView struct {
	BlindNumber    int                 `json:"blindNumber"`
	PerCriteriaAvg map[string]*float64 `json:"perCriteriaAvg"`
	OverallAvg     *float64            `json:"overallAvg"`
	NRatings       int                 `json:"nRatings"`
	Rank           *int                `json:"rank"`
	Synthetic      bool                `json:"synthetic,omitempty"`
	Wine           WineView            `json:"wine"`
}

type View struct {
	TastingID   string          `json:"tastingId"`
	PublicSlug  string          `json:"publicSlug"`
	Title       string          `json:"title"`
	Status      Status          `json:"status"`
	Strategy    Strategy        `json:"strategy"`
	Criteria    []CriterionView `json:"criteria"`
	Rows        []RowView       `json:"rows"`
	Ranking     []RowView       `json:"ranking"`
	RatingCount int             `json:"ratingCount"`
	// DroppedRatings is only reported to admins.
	DroppedRatings *int `json:"droppedRatings,omitempty"`
}

// View renders the report for an audience, rounding every average to two
// decimals.
func (r Report) View(audience Audience) View {
	v := View{
		TastingID:   r.Tasting.ID,
		PublicSlug:  r.Tasting.PublicSlug,
		Title:       r.Tasting.Title,
		Status:      r.Tasting.Status,
		Strategy:    r.Strategy,
		Criteria:    make([]CriterionView, 0, len(r.Criteria)),
		Rows:        make([]RowView, 0, len(r.Rows)),
		Ranking:     make([]RowView, 0, len(r.Ranking)),
		RatingCount: r.RatingCount,
	}
	for _, c := range r.Criteria {
		v.Criteria = append(v.Criteria, NewCriterionView(c))
	}
	for _, row := range r.Rows {
		v.Rows = append(v.Rows, r.rowView(row, audience))
	}
	for _, row := range r.Ranking {
		v.Ranking = append(v.Ranking, r.rowView(row, audience))
	}
	if audience == AudienceAdmin {
		dropped := r.Dropped
		v.DroppedRatings = &dropped
	}
	return v
}

func (r Report) rowView(row Row, audience Audience) RowView {
	per := make(map[string]*float64, len(row.PerCriterionAvg))
	for id, avg := range row.PerCriterionAvg {
		per[id] = round2Ptr(avg)
	}
	rv := RowView{
		BlindNumber:    row.BlindNumber,
		PerCriteriaAvg: per,
		OverallAvg:     round2Ptr(row.OverallAvg),
		NRatings:       row.NRatings,
		Rank:           row.Rank,
		Synthetic:      row.Synthetic(),
	}
	if row.Wine != nil {
		rv.Wine = NewWineView(*row.Wine, r.Tasting.Status, audience)
	} else {
		n := row.BlindNumber
		rv.Wine = WineView{BlindNumber: &n}
	}
	return rv
}

// NewWineView applies the reveal gate to a wine slot.
func NewWineView(w Wine, status Status, audience Audience) WineView {
	v := WineView{BlindNumber: w.BlindNumber, IsActive: w.IsActive}
	if audience != AudienceAdmin && !status.Revealed() {
		return v
	}
	id := w.Identity
	v.ServeOrder = w.ServeOrder
	v.Winery = id.Winery
	v.Grape = id.Grape
	v.Vintage = id.Vintage
	v.OwnerName = id.OwnerName
	v.DisplayName = id.DisplayName
	v.ImageURL = id.ImageURL
	v.ImagePath = id.ImagePath
	if audience == AudienceAdmin {
		v.ID = w.ID
	}
	return v
}

func NewCriterionView(c Criterion) CriterionView {
	return CriterionView{
		ID:       c.ID,
		Label:    c.Label,
		Order:    c.Order,
		ScaleMin: c.ScaleMin,
		ScaleMax: c.ScaleMax,
		Weight:   c.Weight,
	}
}

var half = decimal.NewFromFloat(0.5)

// Round2 rounds half-up to two decimals using the shortest decimal form of
// v, so 7.555 becomes 7.56 even though its binary value sits just below.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return v
	}
	return decimal.NewFromFloat(v).Shift(2).Add(half).Floor().Shift(-2).InexactFloat64()
}

func round2Ptr(v *float64) *float64 {
	if v == nil {
		return nil
	}
	out := Round2(*v)
	return &out
}
