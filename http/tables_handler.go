package http

import (
	"context"
	"net/http"

	"vehicle-tax/domain"
	"vehicle-tax/rates"
)

type categoryTable struct {
	Category domain.VehicleCategory `json:"category"`
	Label    string                 `json:"label"`
	Bands    []domain.TaxRateBand   `json:"bands"`
}

type tablesResponse struct {
	Name         string                    `json:"name"`
	Currency     string                    `json:"currency"`
	Depreciation []domain.DepreciationBand `json:"depreciation"`
	TaxRates     []categoryTable           `json:"tax_rates"`
}

// TablesHandler serves the active schedule so a form can render its options.
func TablesHandler(tables *rates.RateTables) http.Handler {
	resp := tablesResponse{
		Name:         tables.Name(),
		Currency:     tables.Currency(),
		Depreciation: tables.DepreciationBands(),
	}
	for _, c := range domain.Categories {
		resp.TaxRates = append(resp.TaxRates, categoryTable{
			Category: c,
			Label:    c.Label(),
			Bands:    tables.TaxRateBands(c),
		})
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
			return
		}
		writeJSON(w, r, http.StatusOK, resp)
	})
}

// HealthHandler reports ok, or 503 when ping (if any) fails.
func HealthHandler(ping func(context.Context) error) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if ping != nil {
			if err := ping(r.Context()); err != nil {
				writeJSON(w, r, http.StatusServiceUnavailable, map[string]string{"status": "degraded", "error": err.Error()})
				return
			}
		}
		writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
	})
}
