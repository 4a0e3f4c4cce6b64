// Package rates holds the immutable depreciation and tax-rate schedules the
// estimator looks values up in.
package rates

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"vehicle-tax/domain"
)

//go:embed karnataka.yaml
var karnatakaYAML []byte

// RateTables is built once at startup and only read afterwards, so it is safe
// to share between goroutines without locking.
type RateTables struct {
	name         string
	currency     string
	depreciation []domain.DepreciationBand
	taxRates     map[domain.VehicleCategory][]domain.TaxRateBand
}

// Default returns the embedded Karnataka schedule.
func Default() (*RateTables, error) {
	return Parse(karnatakaYAML)
}

// Load reads a schedule document from path, or returns the embedded default
// when path is empty.
func Load(path string) (*RateTables, error) {
	if path == "" {
		return Default()
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read tax tables %s: %w", path, err)
	}
	t, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("tax tables %s: %w", path, err)
	}
	return t, nil
}

func Parse(b []byte) (*RateTables, error) {
	var dto YAMLTables
	if err := yaml.Unmarshal(b, &dto); err != nil {
		return nil, fmt.Errorf("decode tax tables: %w", err)
	}
	return MapTables(dto)
}

func (t *RateTables) Name() string     { return t.name }
func (t *RateTables) Currency() string { return t.currency }

// DepreciationBands returns a copy of the age bands in ascending order.
func (t *RateTables) DepreciationBands() []domain.DepreciationBand {
	return append([]domain.DepreciationBand(nil), t.depreciation...)
}

// TaxRateBands returns a copy of the cost bands for category.
func (t *RateTables) TaxRateBands(category domain.VehicleCategory) []domain.TaxRateBand {
	return append([]domain.TaxRateBand(nil), t.taxRates[category]...)
}

// DepreciationFractionFor returns the fraction of original cost retained at
// the given age together with the band that matched.
func (t *RateTables) DepreciationFractionFor(ageYears decimal.Decimal) (decimal.Decimal, domain.DepreciationBand, error) {
	if ageYears.IsNegative() {
		return decimal.Decimal{}, domain.DepreciationBand{}, &domain.OutOfDomainError{Table: "depreciation", Value: ageYears}
	}
	for _, b := range t.depreciation {
		if b.Contains(ageYears) {
			return b.Fraction, b, nil
		}
	}
	return decimal.Decimal{}, domain.DepreciationBand{}, &domain.OutOfDomainError{Table: "depreciation", Value: ageYears}
}

// TaxRateFor returns the rate for a category at the given original cost.
func (t *RateTables) TaxRateFor(category domain.VehicleCategory, cost decimal.Decimal) (decimal.Decimal, domain.TaxRateBand, error) {
	table := "tax_rates." + string(category)
	if !cost.IsPositive() {
		return decimal.Decimal{}, domain.TaxRateBand{}, &domain.OutOfDomainError{Table: table, Value: cost}
	}
	for _, b := range t.taxRates[category] {
		if b.Contains(cost) {
			return b.Rate, b, nil
		}
	}
	return decimal.Decimal{}, domain.TaxRateBand{}, &domain.OutOfDomainError{Table: table, Value: cost}
}

// Validate checks that every band list starts at zero, is contiguous, ends
// with a single unbounded band and carries a share in (0,1].
func (t *RateTables) Validate() error {
	var errs []error

	dep := make([]band, 0, len(t.depreciation))
	for _, b := range t.depreciation {
		dep = append(dep, band{min: b.MinAgeYears, max: b.MaxAgeYears, share: b.Fraction})
	}
	if err := validateBands(dep); err != nil {
		errs = append(errs, fmt.Errorf("depreciation: %w", err))
	}

	for _, c := range domain.Categories {
		list, ok := t.taxRates[c]
		if !ok {
			errs = append(errs, fmt.Errorf("tax_rates.%s: missing", c))
			continue
		}
		bs := make([]band, 0, len(list))
		for _, b := range list {
			bs = append(bs, band{min: b.MinCost, max: b.MaxCost, share: b.Rate})
		}
		if err := validateBands(bs); err != nil {
			errs = append(errs, fmt.Errorf("tax_rates.%s: %w", c, err))
		}
	}

	return errors.Join(errs...)
}

type band struct {
	min   decimal.Decimal
	max   *decimal.Decimal
	share decimal.Decimal
}

var one = decimal.NewFromInt(1)

func validateBands(bands []band) error {
	if len(bands) == 0 {
		return errors.New("no bands")
	}
	if !bands[0].min.IsZero() {
		return fmt.Errorf("first band starts at %s, want 0", bands[0].min)
	}
	for i, b := range bands {
		if !b.share.IsPositive() || b.share.GreaterThan(one) {
			return fmt.Errorf("band %d: share %s outside (0,1]", i, b.share)
		}
		last := i == len(bands)-1
		if b.max == nil {
			if !last {
				return fmt.Errorf("band %d: only the last band may be unbounded", i)
			}
			continue
		}
		if last {
			return fmt.Errorf("band %d: last band must be unbounded", i)
		}
		if !b.max.GreaterThan(b.min) {
			return fmt.Errorf("band %d: max %s not above min %s", i, b.max, b.min)
		}
		if next := bands[i+1].min; !next.Equal(*b.max) {
			return fmt.Errorf("band %d: ends at %s but band %d starts at %s", i, b.max, i+1, next)
		}
	}
	return nil
}
