package rates

import (
	"fmt"

	"github.com/shopspring/decimal"

	"vehicle-tax/domain"
)

var hundred = decimal.NewFromInt(100)

func MapTables(dto YAMLTables) (*RateTables, error) {
	t := &RateTables{
		name:     dto.Name,
		currency: dto.Currency,
		taxRates: make(map[domain.VehicleCategory][]domain.TaxRateBand, len(dto.TaxRates)),
	}
	if t.currency == "" {
		t.currency = "INR"
	}

	for i, b := range dto.Depreciation {
		min, max, share, err := mapBand(b)
		if err != nil {
			return nil, fmt.Errorf("depreciation[%d]: %w", i, err)
		}
		t.depreciation = append(t.depreciation, domain.DepreciationBand{
			MinAgeYears: min,
			MaxAgeYears: max,
			Fraction:    share,
		})
	}

	seen := make(map[domain.VehicleCategory]string, len(dto.TaxRates))
	for name, bands := range dto.TaxRates {
		category, err := domain.ParseVehicleCategory(name)
		if err != nil {
			return nil, fmt.Errorf("tax_rates.%s: %w", name, err)
		}
		if prev, dup := seen[category]; dup {
			first, second := prev, name
			if second < first {
				first, second = second, first
			}
			return nil, fmt.Errorf("tax_rates: %q and %q both name category %s", first, second, category)
		}
		seen[category] = name
		list := make([]domain.TaxRateBand, 0, len(bands))
		for i, b := range bands {
			min, max, share, err := mapBand(b)
			if err != nil {
				return nil, fmt.Errorf("tax_rates.%s[%d]: %w", name, i, err)
			}
			list = append(list, domain.TaxRateBand{MinCost: min, MaxCost: max, Rate: share})
		}
		t.taxRates[category] = list
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}
	return t, nil
}

func mapBand(b YAMLBand) (decimal.Decimal, *decimal.Decimal, decimal.Decimal, error) {
	min, err := parseBound("min", b.Min)
	if err != nil {
		return decimal.Decimal{}, nil, decimal.Decimal{}, err
	}
	var max *decimal.Decimal
	if b.Max != nil {
		m, err := parseBound("max", *b.Max)
		if err != nil {
			return decimal.Decimal{}, nil, decimal.Decimal{}, err
		}
		max = &m
	}
	pct, err := parseBound("percent", b.Percent)
	if err != nil {
		return decimal.Decimal{}, nil, decimal.Decimal{}, err
	}
	return min, max, pct.Div(hundred), nil
}

func parseBound(name, raw string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("%s %q: %w", name, raw, err)
	}
	if !domain.PlainDecimal(d) {
		return decimal.Decimal{}, fmt.Errorf("%s %q: exponent outside [%d, %d]", name, raw, domain.MinExponent, domain.MaxExponent)
	}
	return d, nil
}
