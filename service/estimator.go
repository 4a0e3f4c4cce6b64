package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"vehicle-tax/domain"
	"vehicle-tax/rates"
)

// Estimator is anything that can turn a request into an estimate, whether
// computed locally or by a remote backend.
type Estimator interface {
	Estimate(ctx context.Context, req domain.EstimateRequest) (domain.EstimateResult, error)
}

// Estimate applies the depreciation and tax-rate tables to req. The rate band
// is chosen by the original cost, never by the depreciated value. Nothing is
// rounded here; callers round when presenting.
func Estimate(tables *rates.RateTables, req domain.EstimateRequest) (domain.EstimateResult, error) {
	if err := req.Validate(); err != nil {
		return domain.EstimateResult{}, err
	}

	fraction, depBand, err := tables.DepreciationFractionFor(req.AgeYears)
	if err != nil {
		return domain.EstimateResult{}, err
	}
	depreciated := req.OriginalCost.Mul(fraction)

	rate, rateBand, err := tables.TaxRateFor(req.Category, req.OriginalCost)
	if err != nil {
		return domain.EstimateResult{}, err
	}
	tax := depreciated.Mul(rate)

	result := domain.EstimateResult{
		EstimatedTax:                tax,
		DepreciatedValue:            depreciated,
		AppliedDepreciationFraction: fraction,
		AppliedTaxRate:              rate,
		DepreciationBand:            depBand,
		TaxRateBand:                 rateBand,
	}
	result.BreakdownText = Breakdown(req, result)
	return result, nil
}

// Breakdown describes the matched bands and the arithmetic in plain text.
func Breakdown(req domain.EstimateRequest, res domain.EstimateResult) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Vehicle type: %s\n", req.Category.Label())
	fmt.Fprintf(&b, "Original cost: %s\n", FormatINR(req.OriginalCost))
	fmt.Fprintf(&b, "Vehicle age: %s years\n\n", req.AgeYears)

	fmt.Fprintf(&b, "1. Depreciation: age falls in the %q band, so %s of the original cost is taxable.\n",
		res.DepreciationBand.String(), FormatPercent(res.AppliedDepreciationFraction))
	fmt.Fprintf(&b, "   Depreciated value = %s x %s = %s\n",
		FormatINR(req.OriginalCost), FormatPercent(res.AppliedDepreciationFraction), FormatINR(res.DepreciatedValue))

	fmt.Fprintf(&b, "2. Tax rate: an original cost of %s falls in the %s band for %s, so the rate is %s.\n",
		FormatINR(req.OriginalCost), describeCostBand(res.TaxRateBand), req.Category, FormatPercent(res.AppliedTaxRate))

	fmt.Fprintf(&b, "3. Estimated tax = %s x %s = %s",
		FormatINR(res.DepreciatedValue), FormatPercent(res.AppliedTaxRate), FormatINR(res.EstimatedTax))

	return b.String()
}

func describeCostBand(band domain.TaxRateBand) string {
	if band.MaxCost == nil {
		return fmt.Sprintf("%s and above", FormatINR(band.MinCost))
	}
	// Whole-rupee bounds read better as the inclusive last rupee.
	if band.MaxCost.IsInteger() {
		return fmt.Sprintf("%s to %s", FormatINR(band.MinCost), FormatINR(band.MaxCost.Sub(decimal.NewFromInt(1))))
	}
	return fmt.Sprintf("%s to below %s", FormatINR(band.MinCost), FormatINR(*band.MaxCost))
}
