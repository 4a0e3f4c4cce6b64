package domain

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// DepreciationBand maps an age range in years to the fraction of the original
// cost retained. Min is inclusive, Max exclusive; a nil Max is unbounded.
type DepreciationBand struct {
	MinAgeYears decimal.Decimal  `json:"min_age_years"`
	MaxAgeYears *decimal.Decimal `json:"max_age_years"`
	Fraction    decimal.Decimal  `json:"fraction"`
}

// TaxRateBand maps an original-cost range to a tax rate for one category.
type TaxRateBand struct {
	MinCost decimal.Decimal  `json:"min_cost"`
	MaxCost *decimal.Decimal `json:"max_cost"`
	Rate    decimal.Decimal  `json:"rate"`
}

func (b DepreciationBand) Contains(age decimal.Decimal) bool {
	return inRange(age, b.MinAgeYears, b.MaxAgeYears)
}

func (b TaxRateBand) Contains(cost decimal.Decimal) bool {
	return inRange(cost, b.MinCost, b.MaxCost)
}

func (b DepreciationBand) String() string {
	if b.MaxAgeYears == nil {
		return fmt.Sprintf("%s years or more", b.MinAgeYears)
	}
	if b.MinAgeYears.IsZero() {
		return fmt.Sprintf("less than %s years", b.MaxAgeYears)
	}
	return fmt.Sprintf("%s to %s years", b.MinAgeYears, b.MaxAgeYears)
}

func (b TaxRateBand) String() string {
	if b.MaxCost == nil {
		return fmt.Sprintf("%s and above", b.MinCost)
	}
	return fmt.Sprintf("%s up to (not including) %s", b.MinCost, b.MaxCost)
}

func inRange(v, min decimal.Decimal, max *decimal.Decimal) bool {
	if v.LessThan(min) {
		return false
	}
	return max == nil || v.LessThan(*max)
}
