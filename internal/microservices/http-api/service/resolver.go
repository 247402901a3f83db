package service

import (
	"context"

	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/microservices/http-api/repository"
)

// TastingResolver looks tastings up by public slug, consulting the slug
// cache before the database.
type TastingResolver struct {
	tastings repository.TastingRepository
	cache    repository.SlugCache
}

// NewTastingResolver accepts a nil cache.
func NewTastingResolver(tastings repository.TastingRepository, cache repository.SlugCache) *TastingResolver {
	return &TastingResolver{tastings: tastings, cache: cache}
}

func (r *TastingResolver) Resolve(ctx context.Context, slug string) (*models.Tasting, error) {
	if r.cache != nil {
		if id, ok := r.cache.Get(ctx, slug); ok {
			t, err := r.tastings.GetByID(ctx, id)
			if err == nil && t.PublicSlug == slug {
				return t, nil
			}
			if err != nil && !isNotFound(err) {
				return nil, err
			}
		}
	}

	t, err := r.tastings.GetBySlug(ctx, slug)
	if err != nil {
		if isNotFound(err) {
			return nil, notFound("tasting %q not found", slug)
		}
		return nil, err
	}
	r.remember(ctx, t)
	return t, nil
}

func (r *TastingResolver) remember(ctx context.Context, t *models.Tasting) {
	if r.cache != nil {
		r.cache.Set(ctx, t.PublicSlug, t.ID)
	}
}
