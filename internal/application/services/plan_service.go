package services

import (
	"context"
	"errors"
	"time"

	"github.com/zatekoja/learnplan/internal/domain/entities"
	"github.com/zatekoja/learnplan/internal/domain/providers"
	"github.com/zatekoja/learnplan/internal/domain/repositories"
	"github.com/zatekoja/learnplan/internal/infrastructure/observability"
	apperrors "github.com/zatekoja/learnplan/pkg/errors"
	"github.com/zatekoja/learnplan/pkg/validation"
	"go.opentelemetry.io/otel/attribute"
)

var errGatewayDisabled = errors.New("suggestion gateway disabled")

// PlanService runs the recommendation and scheduling pipeline. It holds no
// per-request state and is safe for concurrent use.
type PlanService struct {
	selector    *CatalogSelector
	suggestions providers.SuggestionProvider
	metrics     *observability.Metrics
}

// NewPlanService creates a new plan service. suggestions may be nil, in which
// case every run uses curated resources only.
func NewPlanService(resources repositories.ResourceRepository, suggestions providers.SuggestionProvider, candidatePool int) *PlanService {
	return &PlanService{
		selector:    NewCatalogSelector(resources, candidatePool),
		suggestions: suggestions,
	}
}

// SetMetrics enables pipeline metrics
func (s *PlanService) SetMetrics(metrics *observability.Metrics) {
	s.metrics = metrics
}

// GeneratePlan turns a learner's goal into merged recommendations and a
// day-by-day plan. It always returns a payload: malformed input, store
// failures and unexpected panics produce a failed result.
func (s *PlanService) GeneratePlan(ctx context.Context, req entities.PlanRequest) (result entities.PlanResult) {
	ctx, span := observability.StartSpan(ctx, "PlanService.GeneratePlan")
	defer span.End()
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("plan generation panicked")
			result = entities.FailedPlan("failed to generate plan")
		}
		observability.RecordPlanMetric(ctx, s.metrics, "plan", result.Success, result.Fallback, time.Since(start))
	}()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return entities.FailedPlan(verr.Error())
	}

	recs, fallback, err := s.recommend(ctx, req)
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("topic", req.Topic).Msg("catalog selection failed")
		return entities.FailedPlan(apperrors.PublicMessage(err))
	}

	plan := SchedulePlan(recs, req.Duration, req.Intensity, PlanContext{
		Topic:       req.Topic,
		Description: req.Description,
	})

	curated, ai := entities.CountOrigins(recs)
	observability.SetSpanAttributes(span,
		attribute.Int("plan.total_days", req.Duration),
		attribute.Int("plan.curated_count", curated),
		attribute.Int("plan.ai_count", ai),
		attribute.Bool("plan.fallback", fallback),
	)
	logger.Info().
		Str("topic", req.Topic).
		Int("total_days", req.Duration).
		Int("curated_count", curated).
		Int("ai_count", ai).
		Bool("fallback", fallback).
		Msg("plan generated")

	return entities.PlanResult{
		Success:      true,
		Materials:    recs,
		DailyPlan:    plan,
		TotalDays:    req.Duration,
		CuratedCount: curated,
		AICount:      ai,
		Fallback:     fallback,
	}
}

// Recommend runs selection, suggestion and merging without scheduling
func (s *PlanService) Recommend(ctx context.Context, req entities.RecommendRequest) (result entities.RecommendResult) {
	ctx, span := observability.StartSpan(ctx, "PlanService.Recommend")
	defer span.End()
	start := time.Now()
	logger := observability.LoggerFromContext(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error().Interface("panic", r).Msg("recommendation panicked")
			result = entities.RecommendResult{Error: "failed to generate recommendations", Recommendations: []entities.Recommendation{}}
		}
		observability.RecordPlanMetric(ctx, s.metrics, "recommend", result.Success, result.Fallback, time.Since(start))
	}()

	if verr := validation.ValidateStruct(&req); verr != nil {
		return entities.RecommendResult{Error: verr.Error(), Recommendations: []entities.Recommendation{}}
	}

	recs, fallback, err := s.recommend(ctx, req.PlanRequest())
	if err != nil {
		observability.RecordError(span, err)
		logger.Error().Err(err).Str("topic", req.Topic).Msg("catalog selection failed")
		return entities.RecommendResult{Error: apperrors.PublicMessage(err), Recommendations: []entities.Recommendation{}}
	}

	curated, ai := entities.CountOrigins(recs)
	return entities.RecommendResult{
		Success:         true,
		Recommendations: recs,
		Total:           len(recs),
		CuratedCount:    curated,
		AICount:         ai,
		Fallback:        fallback,
	}
}

// recommend selects catalog candidates, asks the gateway once and merges.
// fallback is true when the gateway did not answer usefully.
func (s *PlanService) recommend(ctx context.Context, req entities.PlanRequest) ([]entities.Recommendation, bool, error) {
	candidates, err := s.selector.Select(ctx, req.Description, req.Topic, req.Level)
	if err != nil {
		return nil, false, err
	}

	suggestion := s.suggest(ctx, BuildPrompt(req, candidates))
	if !suggestion.OK() {
		observability.LoggerFromContext(ctx).Warn().
			Err(suggestion.Err).
			Str("outcome", string(suggestion.Outcome)).
			Int("curated_count", min(len(candidates), CuratedSliceSize)).
			Msg("using curated resources only")
		return MergeRecommendations(candidates, nil), true, nil
	}

	merged := MergeRecommendations(candidates, suggestion.Suggestions)
	_, ai := entities.CountOrigins(merged)
	return merged, ai == 0, nil
}

func (s *PlanService) suggest(ctx context.Context, prompt string) providers.SuggestionResult {
	if s.suggestions == nil {
		return providers.ExternalFailure(errGatewayDisabled)
	}
	ctx, span := observability.StartSpan(ctx, "SuggestionProvider.Suggest")
	defer span.End()

	result := s.suggestions.Suggest(ctx, prompt)
	observability.SetSpanAttributes(span,
		attribute.String("ai.outcome", string(result.Outcome)),
		attribute.Int("ai.suggestions", len(result.Suggestions)),
	)
	observability.RecordError(span, result.Err)
	return result
}
