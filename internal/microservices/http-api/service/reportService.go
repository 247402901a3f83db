package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"blindtasting/internal/microservices/http-api/models"
	"blindtasting/internal/microservices/http-api/repository"
	"blindtasting/internal/report"
	"blindtasting/pkg/metrics"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "blindtasting/report"

type ReportService interface {
	// Public is the participant-facing results view. It always uses the
	// rating-mean strategy and hides wine identity until the reveal.
	Public(ctx context.Context, slug string) (*report.View, error)
	// Admin is the unredacted live report under the chosen strategy.
	Admin(ctx context.Context, slug string, strategy report.Strategy) (*report.View, error)
}

type reportService struct {
	repos    repository.Repositories
	resolver *TastingResolver
	metrics  *metrics.Metrics
	logger   *slog.Logger
	tracer   trace.Tracer
}

func NewReportService(repos repository.Repositories, resolver *TastingResolver, m *metrics.Metrics, logger *slog.Logger) ReportService {
	return &reportService{
		repos:    repos,
		resolver: resolver,
		metrics:  m,
		logger:   logger,
		tracer:   otel.Tracer(tracerName),
	}
}

func (s *reportService) Public(ctx context.Context, slug string) (*report.View, error) {
	return s.build(ctx, slug, report.StrategyRatingMean, report.AudiencePublic)
}

func (s *reportService) Admin(ctx context.Context, slug string, strategy report.Strategy) (*report.View, error) {
	return s.build(ctx, slug, strategy, report.AudienceAdmin)
}

func (s *reportService) build(ctx context.Context, slug string, strategy report.Strategy, audience report.Audience) (*report.View, error) {
	ctx, span := s.tracer.Start(ctx, "report.build", trace.WithAttributes(
		attribute.String("tasting.slug", slug),
		attribute.String("report.strategy", string(strategy)),
		attribute.String("report.audience", audienceName(audience)),
	))
	defer span.End()
	start := time.Now()

	tasting, err := s.resolver.Resolve(ctx, slug)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	snap, err := s.snapshot(ctx, tasting)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "snapshot failed")
		return nil, err
	}

	rep, err := report.Compute(snap, strategy)
	if err != nil {
		if errors.Is(err, report.ErrUnknownStrategy) {
			return nil, invalidInput("%s", err.Error())
		}
		span.RecordError(err)
		return nil, err
	}

	span.SetAttributes(
		attribute.Int("report.rows", len(rep.Rows)),
		attribute.Int("report.ratings", rep.RatingCount),
		attribute.Int("report.dropped", rep.Dropped),
	)
	if rep.Dropped > 0 {
		s.logger.Debug("ratings dropped during normalization", "slug", slug, "dropped", rep.Dropped)
	}
	s.metrics.ObserveReport(string(strategy), audienceName(audience), rep.Dropped, time.Since(start))

	view := rep.View(audience)
	return &view, nil
}

// snapshot reads the three collections of a tasting concurrently.
func (s *reportService) snapshot(ctx context.Context, tasting *models.Tasting) (report.Snapshot, error) {
	var (
		criteria []models.Criterion
		wines    []models.Wine
		ratings  []models.Rating
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		criteria, err = s.repos.Criteria.ListByTasting(gctx, tasting.ID)
		return err
	})
	g.Go(func() (err error) {
		wines, err = s.repos.Wines.ListByTasting(gctx, tasting.ID)
		return err
	})
	g.Go(func() (err error) {
		ratings, err = s.repos.Ratings.ListByTasting(gctx, tasting.ID)
		return err
	})
	if err := g.Wait(); err != nil {
		return report.Snapshot{}, err
	}

	t := tasting.ToReport()
	snap := report.Snapshot{
		Tasting:  &t,
		Criteria: make([]report.Criterion, 0, len(criteria)),
		Wines:    make([]report.Wine, 0, len(wines)),
		Ratings:  make([]report.RawRating, 0, len(ratings)),
	}
	for i := range criteria {
		snap.Criteria = append(snap.Criteria, criteria[i].ToReport())
	}
	for i := range wines {
		snap.Wines = append(snap.Wines, wines[i].ToReport())
	}
	for i := range ratings {
		snap.Ratings = append(snap.Ratings, ratings[i].ToReport())
	}
	return snap, nil
}

func audienceName(a report.Audience) string {
	if a == report.AudienceAdmin {
		return "admin"
	}
	return "public"
}
