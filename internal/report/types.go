// Package report aggregates the ratings of a single tasting into per-wine
// averages and a ranking, and renders them for public or admin consumers
// with wine identity gated on the tasting being revealed.
//
// Everything in this package is pure: it reads a materialized snapshot and
// never touches storage, configuration or the clock.
package report

// Status is the lifecycle state of a tasting.
type Status string

const (
	StatusDraft    Status = "draft"
	StatusOpen     Status = "open"
	StatusClosed   Status = "closed"
	StatusRevealed Status = "revealed"
)

// Statuses lists every valid status in lifecycle order.
var Statuses = []Status{StatusDraft, StatusOpen, StatusClosed, StatusRevealed}

func (s Status) Valid() bool {
	switch s {
	case StatusDraft, StatusOpen, StatusClosed, StatusRevealed:
		return true
	}
	return false
}

// Revealed reports whether wine identity may be shown to untrusted viewers.
func (s Status) Revealed() bool { return s == StatusRevealed }

type Tasting struct {
	ID              string
	PublicSlug      string
	Title           string
	HostName        string
	Status          Status
	WineCount       int
	MaxParticipants int
}

// Criterion is one scoring dimension. Weight is only read by the weighted
// strategy and defaults to 1 when nil.
type Criterion struct {
	ID       string
	Label    string
	Order    int
	ScaleMin float64
	ScaleMax float64
	Weight   *float64
}

// EffectiveWeight returns the criterion weight with the default applied.
func (c Criterion) EffectiveWeight() float64 {
	if c.Weight == nil {
		return 1
	}
	return *c.Weight
}

// WineIdentity holds every field that is hidden until the reveal.
type WineIdentity struct {
	Winery      *string
	Grape       *string
	Vintage     *string
	OwnerName   *string
	DisplayName *string
	ImageURL    *string
	ImagePath   *string
}

type Wine struct {
	ID          string
	BlindNumber *int
	IsActive    bool
	ServeOrder  *int
	Identity    WineIdentity
}

// RawRating is a rating record as read from storage. Scores is untrusted and
// is only interpreted by Normalize.
type RawRating struct {
	ID            string
	ParticipantID string
	WineID        string
	BlindNumber   *int
	Scores        any
}

// Rating is a normalized rating: its wine is resolved to a blind number and
// every score is a finite number keyed by a known criterion.
type Rating struct {
	ID            string
	ParticipantID string
	BlindNumber   int
	Scores        map[string]float64
}
