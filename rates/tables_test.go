package rates

import (
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-tax/domain"
)

func mustDefault(t *testing.T) *RateTables {
	t.Helper()
	tables, err := Default()
	require.NoError(t, err)
	return tables
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestDefaultDepreciationFraction(t *testing.T) {
	tables := mustDefault(t)

	tests := []struct {
		age  string
		want string
	}{
		{"0", "0.93"},
		{"1.99", "0.93"},
		{"2", "0.87"},
		{"2.5", "0.87"},
		{"3", "0.81"},
		{"4.99", "0.75"},
		{"5", "0.69"},
		{"6", "0.64"},
		{"9", "0.49"},
		{"10", "0.45"},
		{"14", "0.25"},
		{"14.999", "0.25"},
		{"15", "0.2"},
		{"40", "0.2"},
	}
	for _, tt := range tests {
		t.Run(tt.age, func(t *testing.T) {
			got, _, err := tables.DepreciationFractionFor(dec(tt.age))
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "age %s: got %s want %s", tt.age, got, tt.want)
		})
	}
}

func TestDefaultTaxRate(t *testing.T) {
	tables := mustDefault(t)

	tests := []struct {
		category domain.VehicleCategory
		cost     string
		want     string
	}{
		{domain.Car, "1", "0.13"},
		{domain.Car, "500000", "0.13"},
		{domain.Car, "500001", "0.14"},
		{domain.Car, "850000", "0.14"},
		{domain.Car, "1000000", "0.14"},
		{domain.Car, "1000001", "0.17"},
		{domain.Car, "2000000", "0.17"},
		{domain.Car, "2000001", "0.18"},
		{domain.Motorcycle, "50000", "0.1"},
		{domain.Motorcycle, "50001", "0.12"},
		{domain.Motorcycle, "100000", "0.12"},
		{domain.Motorcycle, "100001", "0.18"},
	}
	for _, tt := range tests {
		t.Run(string(tt.category)+"/"+tt.cost, func(t *testing.T) {
			got, _, err := tables.TaxRateFor(tt.category, dec(tt.cost))
			require.NoError(t, err)
			assert.True(t, dec(tt.want).Equal(got), "got %s want %s", got, tt.want)
		})
	}
}

func TestEveryAgeMatchesExactlyOneBand(t *testing.T) {
	tables := mustDefault(t)
	step := dec("0.25")
	prev := decimal.NewFromInt(2)

	for age := decimal.Zero; age.LessThan(decimal.NewFromInt(30)); age = age.Add(step) {
		matches := 0
		for _, b := range tables.DepreciationBands() {
			if b.Contains(age) {
				matches++
			}
		}
		require.Equal(t, 1, matches, "age %s", age)

		f, _, err := tables.DepreciationFractionFor(age)
		require.NoError(t, err)
		assert.True(t, f.IsPositive() && f.LessThanOrEqual(decimal.NewFromInt(1)), "fraction %s", f)
		assert.True(t, f.LessThanOrEqual(prev), "fraction increased at age %s", age)
		prev = f
	}
}

func TestEveryCostMatchesExactlyOneBand(t *testing.T) {
	tables := mustDefault(t)
	costs := []string{"0.01", "1", "49999.99", "50000", "50000.5", "50001", "99999", "100001", "499999", "500000", "500001", "999999", "1000001", "1999999", "2000001", "99999999"}

	for _, c := range domain.Categories {
		for _, raw := range costs {
			cost := dec(raw)
			matches := 0
			for _, b := range tables.TaxRateBands(c) {
				if b.Contains(cost) {
					matches++
				}
			}
			require.Equal(t, 1, matches, "%s cost %s", c, raw)

			rate, _, err := tables.TaxRateFor(c, cost)
			require.NoError(t, err)
			assert.True(t, rate.IsPositive() && rate.LessThanOrEqual(decimal.NewFromInt(1)))
		}
	}
}

func TestLookupsRejectOutOfDomain(t *testing.T) {
	tables := mustDefault(t)

	_, _, err := tables.DepreciationFractionFor(dec("-0.1"))
	assert.ErrorIs(t, err, domain.ErrOutOfDomain)

	_, _, err = tables.TaxRateFor(domain.Car, decimal.Zero)
	assert.ErrorIs(t, err, domain.ErrOutOfDomain)

	_, _, err = tables.TaxRateFor(domain.Car, dec("-5"))
	assert.ErrorIs(t, err, domain.ErrOutOfDomain)

	_, _, err = tables.TaxRateFor(domain.VehicleCategory("Bus"), dec("5"))
	assert.ErrorIs(t, err, domain.ErrOutOfDomain)
}

func TestBandsAreCopies(t *testing.T) {
	tables := mustDefault(t)
	bands := tables.DepreciationBands()
	bands[0].Fraction = decimal.Zero

	f, _, err := tables.DepreciationFractionFor(decimal.Zero)
	require.NoError(t, err)
	assert.True(t, dec("0.93").Equal(f))
}

func TestLoad(t *testing.T) {
	tables, err := Load(filepath.Join("testdata", "flat.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "flat", tables.Name())

	rate, _, err := tables.TaxRateFor(domain.Motorcycle, dec("1000"))
	require.NoError(t, err)
	assert.True(t, dec("0.075").Equal(rate))

	f, _, err := tables.DepreciationFractionFor(dec("0.4"))
	require.NoError(t, err)
	assert.True(t, f.Equal(decimal.NewFromInt(1)))
}

func TestLoadEmptyPathUsesDefault(t *testing.T) {
	tables, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "karnataka", tables.Name())
	assert.Equal(t, "INR", tables.Currency())
}

func TestLoadErrors(t *testing.T) {
	_, err := Load(filepath.Join("testdata", "missing.yaml"))
	require.Error(t, err)

	_, err = Load(filepath.Join("testdata", "gap.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ends at 2 but band 1 starts at 3")

	_, err = Parse([]byte("depreciation: [oops"))
	require.Error(t, err)
}

func TestValidateBands(t *testing.T) {
	two := dec("2")
	tests := []struct {
		name    string
		bands   []band
		wantErr string
	}{
		{name: "empty", wantErr: "no bands"},
		{name: "not from zero", bands: []band{{min: dec("1"), share: dec("0.5")}}, wantErr: "want 0"},
		{name: "bounded last", bands: []band{{min: decimal.Zero, max: &two, share: dec("0.5")}}, wantErr: "must be unbounded"},
		{name: "unbounded middle", bands: []band{{min: decimal.Zero, share: dec("0.5")}, {min: two, share: dec("0.5")}}, wantErr: "only the last"},
		{name: "zero share", bands: []band{{min: decimal.Zero, share: decimal.Zero}}, wantErr: "outside (0,1]"},
		{name: "share above one", bands: []band{{min: decimal.Zero, share: dec("1.5")}}, wantErr: "outside (0,1]"},
		{name: "ok", bands: []band{{min: decimal.Zero, max: &two, share: dec("1")}, {min: two, share: dec("0.1")}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateBands(tt.bands)
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateMissingCategory(t *testing.T) {
	_, err := Parse([]byte(`
depreciation:
  - {min: 0, percent: 50}
tax_rates:
  Car:
    - {min: 0, percent: 10}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tax_rates.Motorcycle: missing")
}

func TestParseRejectsAliasedCategories(t *testing.T) {
	_, err := Parse([]byte(`
depreciation:
  - {min: 0, percent: 50}
tax_rates:
  Car:
    - {min: 0, percent: 10}
  car:
    - {min: 0, percent: 99}
  Motorcycle:
    - {min: 0, percent: 10}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"Car" and "car" both name category Car`)
}

func TestParseRejectsExtremeExponents(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"max", "depreciation:\n  - {min: 0, max: 1e999999999, percent: 50}\n  - {min: 1e999999999, percent: 40}\n"},
		{"min", "depreciation:\n  - {min: 1e-20000000, percent: 50}\n"},
		{"percent", "depreciation:\n  - {min: 0, percent: 5e-900000}\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc + "tax_rates:\n  Car:\n    - {min: 0, percent: 10}\n  Motorcycle:\n    - {min: 0, percent: 10}\n"))
			require.Error(t, err)
			assert.Contains(t, err.Error(), "exponent outside")
		})
	}
}
