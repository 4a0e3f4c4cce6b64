package domain

import (
	"strings"

	"github.com/shopspring/decimal"
)

type EstimateRequest struct {
	Category     VehicleCategory `json:"category"`
	OriginalCost decimal.Decimal `json:"original_cost"`
	AgeYears     decimal.Decimal `json:"age_years"`
}

type EstimateResult struct {
	EstimatedTax                decimal.Decimal  `json:"estimated_tax"`
	DepreciatedValue            decimal.Decimal  `json:"depreciated_value"`
	AppliedDepreciationFraction decimal.Decimal  `json:"applied_depreciation_fraction"`
	AppliedTaxRate              decimal.Decimal  `json:"applied_tax_rate"`
	DepreciationBand            DepreciationBand `json:"depreciation_band"`
	TaxRateBand                 TaxRateBand      `json:"tax_rate_band"`
	BreakdownText               string           `json:"breakdown_text"`
	Disclaimer                  string           `json:"disclaimer"`
	Explanation                 string           `json:"explanation,omitempty"` // prose from the explainer, never numbers
}

// Validate checks the numeric domain of a request. It does not consult any
// table, so it is the same for every schedule.
func (r EstimateRequest) Validate() error {
	if !r.Category.Valid() {
		return &InvalidInputError{Field: "category", Value: string(r.Category), Reason: "unknown vehicle category"}
	}
	if !r.OriginalCost.IsPositive() {
		return &InvalidInputError{Field: "original_cost", Value: r.OriginalCost.String(), Reason: "must be greater than zero"}
	}
	if r.AgeYears.IsNegative() {
		return &InvalidInputError{Field: "age_years", Value: r.AgeYears.String(), Reason: "must not be negative"}
	}
	return nil
}

// ParseEstimateForm turns the raw strings typed into the form into a validated
// request.
func ParseEstimateForm(category, cost, age string) (EstimateRequest, error) {
	c, err := ParseVehicleCategory(category)
	if err != nil {
		return EstimateRequest{}, err
	}
	costDec, err := parseNumber("original_cost", cost)
	if err != nil {
		return EstimateRequest{}, err
	}
	ageDec, err := parseNumber("age_years", age)
	if err != nil {
		return EstimateRequest{}, err
	}

	req := EstimateRequest{Category: c, OriginalCost: costDec, AgeYears: ageDec}
	if err := req.Validate(); err != nil {
		return EstimateRequest{}, err
	}
	return req, nil
}

func parseNumber(field, raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.Decimal{}, &InvalidInputError{Field: field, Value: raw, Reason: "is required"}
	}
	// Amounts are often typed with Indian digit grouping ("8,50,000").
	s = strings.ReplaceAll(s, ",", "")
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Decimal{}, &InvalidInputError{Field: field, Value: raw, Reason: "must be a number", Err: err}
	}
	// Checked before any comparison: comparing decimals rescales them to a
	// common exponent, which is unbounded work for inputs like "1e-99999999".
	if !PlainDecimal(d) {
		return decimal.Decimal{}, &InvalidInputError{Field: field, Value: raw, Reason: "must be a plain decimal number"}
	}
	return d, nil
}

// Exponent range accepted for any parsed amount or age.
const (
	MinExponent = -8
	MaxExponent = 12
)

// PlainDecimal reports whether d's exponent is within [MinExponent, MaxExponent].
func PlainDecimal(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= MinExponent && exp <= MaxExponent
}
