package service

import (
	"context"
	"testing"

	"blindtasting/internal/microservices/http-api/dto"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingService_SubmitMergesScores(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tasting := env.createTasting(t, "friday-reds", 3)
	nose, taste := criterionID(t, tasting, "Nose"), criterionID(t, tasting, "Taste")
	sess := env.join(t, "friday-reds", "Ana")

	first, err := env.ratings.Submit(ctx, sess, "friday-reds", dto.SubmitRatingRequest{
		BlindNumber: intp(2),
		Scores:      map[string]float64{nose: 7},
		Comment:     strp("cherry"),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, *first.BlindNumber)
	assert.Equal(t, tasting.Wines[1].ID, first.WineID)

	second, err := env.ratings.Submit(ctx, sess, "friday-reds", dto.SubmitRatingRequest{
		WineID: tasting.Wines[1].ID,
		Scores: map[string]float64{taste: 9, nose: 8},
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, map[string]any{nose: 8.0, taste: 9.0}, second.Scores)
	require.NotNil(t, second.Comment)
	assert.Equal(t, "cherry", *second.Comment)

	mine, err := env.ratings.ListMine(ctx, sess, "friday-reds")
	require.NoError(t, err)
	require.Len(t, mine, 1)
	assert.Equal(t, second.ID, mine[0].ID)
}

func TestRatingService_SubmitRejections(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tasting := env.createTasting(t, "friday-reds", 2)
	nose := criterionID(t, tasting, "Nose")
	sess := env.join(t, "friday-reds", "Ana")

	_, err := env.tastings.UpdateWine(ctx, "friday-reds", 2, dto.UpdateWineRequest{IsActive: new(bool)})
	require.NoError(t, err)

	tests := []struct {
		name string
		req  dto.SubmitRatingRequest
		want error
	}{
		{"empty", dto.SubmitRatingRequest{BlindNumber: intp(1)}, ErrInvalidInput},
		{"no wine reference", dto.SubmitRatingRequest{Scores: map[string]float64{nose: 5}}, ErrInvalidInput},
		{"unknown blind number", dto.SubmitRatingRequest{BlindNumber: intp(7), Scores: map[string]float64{nose: 5}}, ErrNotFound},
		{"unknown criterion", dto.SubmitRatingRequest{BlindNumber: intp(1), Scores: map[string]float64{"color": 5}}, ErrInvalidInput},
		{"above scale", dto.SubmitRatingRequest{BlindNumber: intp(1), Scores: map[string]float64{nose: 10.5}}, ErrInvalidInput},
		{"below scale", dto.SubmitRatingRequest{BlindNumber: intp(1), Scores: map[string]float64{nose: 0}}, ErrInvalidInput},
		{"inactive wine", dto.SubmitRatingRequest{BlindNumber: intp(2), Scores: map[string]float64{nose: 5}}, ErrInvalidInput},
		{"mismatched references", dto.SubmitRatingRequest{
			WineID: tasting.Wines[0].ID, BlindNumber: intp(2), Scores: map[string]float64{nose: 5},
		}, ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := env.ratings.Submit(ctx, sess, "friday-reds", tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}

	// scale bounds are inclusive
	_, err = env.ratings.Submit(ctx, sess, "friday-reds", dto.SubmitRatingRequest{
		BlindNumber: intp(1), Scores: map[string]float64{nose: 10},
	})
	assert.NoError(t, err)
}

func TestRatingService_SubmitRequiresOpenTasting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tasting := env.createTasting(t, "friday-reds", 1)
	sess := env.join(t, "friday-reds", "Ana")

	_, err := env.tastings.SetStatus(ctx, "friday-reds", "closed")
	require.NoError(t, err)

	_, err = env.ratings.Submit(ctx, sess, "friday-reds", dto.SubmitRatingRequest{
		BlindNumber: intp(1), Scores: map[string]float64{criterionID(t, tasting, "Nose"): 5},
	})
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestRatingService_SessionMustMatchTasting(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	tasting := env.createTasting(t, "friday-reds", 1)
	env.createTasting(t, "white-night", 1)
	sess := env.join(t, "white-night", "Ana")

	_, err := env.ratings.Submit(ctx, sess, "friday-reds", dto.SubmitRatingRequest{
		BlindNumber: intp(1), Scores: map[string]float64{criterionID(t, tasting, "Nose"): 5},
	})
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = env.ratings.ListMine(ctx, sess, "friday-reds")
	assert.ErrorIs(t, err, ErrUnauthorized)
}
