package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"vehicle-tax/domain"
	"vehicle-tax/rates"
	"vehicle-tax/repository"
)

// Explainer produces prose around a computed estimate.
type Explainer interface {
	Explain(ctx context.Context, req domain.EstimateRequest, res domain.EstimateResult) (string, error)
}

type EstimateOptions struct {
	Explain bool
}

// TaxService is the deterministic Estimator used by the HTTP and CLI layers.
type TaxService struct {
	tables     *rates.RateTables
	explainer  Explainer
	cache      repository.CacheRepository
	cacheTTL   time.Duration
	disclaimer string
	logger     zerolog.Logger
}

type TaxServiceOption func(*TaxService)

func WithExplainer(e Explainer, cache repository.CacheRepository, ttl time.Duration) TaxServiceOption {
	return func(s *TaxService) {
		s.explainer = e
		s.cache = cache
		s.cacheTTL = ttl
	}
}

func WithDisclaimer(text string) TaxServiceOption {
	return func(s *TaxService) { s.disclaimer = text }
}

func NewTaxService(tables *rates.RateTables, logger zerolog.Logger, opts ...TaxServiceOption) *TaxService {
	s := &TaxService{
		tables:     tables,
		cacheTTL:   DefaultExplanationTTL,
		disclaimer: Disclaimer,
		logger:     logger.With().Str("component", "tax_service").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TaxService) Tables() *rates.RateTables { return s.tables }

func (s *TaxService) Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimateResult, error) {
	return s.EstimateTax(ctx, req, EstimateOptions{})
}

// EstimateTax validates req, computes the estimate and, when asked, attaches
// an explanation. A failed explanation never fails the estimate.
func (s *TaxService) EstimateTax(
	ctx context.Context,
	req domain.EstimateRequest,
	opts EstimateOptions,
) (domain.EstimateResult, error) {
	if err := checkLimits(req); err != nil {
		return domain.EstimateResult{}, err
	}

	result, err := Estimate(s.tables, req)
	if err != nil {
		if errors.Is(err, domain.ErrOutOfDomain) {
			s.logger.Error().Err(err).
				Str("category", string(req.Category)).
				Str("cost", req.OriginalCost.String()).
				Str("age", req.AgeYears.String()).
				Msg("rate tables do not cover request")
		}
		return domain.EstimateResult{}, err
	}
	result.Disclaimer = s.disclaimer

	s.logger.Debug().
		Str("category", string(req.Category)).
		Str("tax", result.EstimatedTax.StringFixed(2)).
		Msg("estimate computed")

	if opts.Explain {
		result.Explanation = s.explain(ctx, req, result)
	}
	return result, nil
}

func (s *TaxService) explain(ctx context.Context, req domain.EstimateRequest, res domain.EstimateResult) string {
	if s.explainer == nil {
		return FallbackExplanation(req, res)
	}

	key := explanationKey(s.tables.Name(), req)
	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			return cached
		}
	}

	text, err := s.explainer.Explain(ctx, req, res)
	if err != nil {
		if errors.Is(err, ErrAIDisabled) {
			s.logger.Debug().Msg("ai disabled, using fallback explanation")
		} else {
			s.logger.Warn().Err(err).Msg("ai explanation failed, using fallback")
		}
		return FallbackExplanation(req, res)
	}

	if s.cache != nil {
		// Not critical if it fails.
		if err := s.cache.Set(ctx, key, text, s.cacheTTL); err != nil {
			s.logger.Warn().Err(err).Msg("failed to cache explanation")
		}
	}
	return text
}

func checkLimits(req domain.EstimateRequest) error {
	if req.OriginalCost.GreaterThan(decimal.NewFromInt(MaxVehicleCost)) {
		return &domain.InvalidInputError{
			Field:  "original_cost",
			Value:  req.OriginalCost.String(),
			Reason: fmt.Sprintf("exceeds the maximum of %s", FormatINR(decimal.NewFromInt(MaxVehicleCost))),
		}
	}
	if req.AgeYears.GreaterThan(decimal.NewFromInt(MaxVehicleAgeYears)) {
		return &domain.InvalidInputError{
			Field:  "age_years",
			Value:  req.AgeYears.String(),
			Reason: fmt.Sprintf("exceeds the maximum of %d years", MaxVehicleAgeYears),
		}
	}
	return nil
}

// explanationKey fingerprints everything the explanation depends on. Amounts
// are normalised so "5" and "5.0" share an entry.
func explanationKey(tablesName string, req domain.EstimateRequest) string {
	canonical := tablesName + "|" + string(req.Category) + "|" +
		req.OriginalCost.String() + "|" + req.AgeYears.String()
	return explanationCachePrefix + strconv.FormatUint(xxhash.Sum64String(canonical), 16)
}
