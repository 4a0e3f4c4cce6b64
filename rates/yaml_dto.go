package rates

type YAMLTables struct {
	Name         string                `yaml:"name"`
	Currency     string                `yaml:"currency"`
	Depreciation []YAMLBand            `yaml:"depreciation"`
	TaxRates     map[string][]YAMLBand `yaml:"tax_rates"`
}

// YAMLBand bounds are plain decimal strings so "0.5" or "500001" keep their
// exact value; percent is the share in whole or fractional percent.
type YAMLBand struct {
	Min     string  `yaml:"min"`
	Max     *string `yaml:"max"`
	Percent string  `yaml:"percent"`
}
