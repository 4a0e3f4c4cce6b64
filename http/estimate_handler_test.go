package http

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vehicle-tax/rates"
	"vehicle-tax/service"
)

func newTestService(t *testing.T) *service.TaxService {
	t.Helper()
	tables, err := rates.Default()
	require.NoError(t, err)
	return service.NewTaxService(tables, zerolog.Nop())
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/vehicle-tax/estimate", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}

func TestEstimateTaxHandler_OK(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), NewMetrics())

	w := postJSON(t, handler.EstimateTax, `{"category":"Car","original_cost":850000,"age_years":5}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	body := decodeBody(t, w)
	assert.Equal(t, "82110", body["estimated_tax"])
	assert.Equal(t, "586500", body["depreciated_value"])
	assert.Equal(t, "0.69", body["applied_depreciation_fraction"])
	assert.Equal(t, "0.14", body["applied_tax_rate"])
	assert.Equal(t, "₹ 82,110", body["formatted_tax"])
	assert.Equal(t, "Car", body["category"])
	assert.Equal(t, service.Disclaimer, body["disclaimer"])
	assert.NotEmpty(t, body["breakdown_text"])
	assert.NotContains(t, body, "explanation")
}

func TestEstimateTaxHandler_StringNumbersAndExplain(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), nil)

	w := postJSON(t, handler.EstimateTax, `{"category":"motorcycle","original_cost":"1,20,000","age_years":"2","explain":true}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	body := decodeBody(t, w)
	assert.Equal(t, "Motorcycle", body["category"])
	// 120000 x 0.87 x 0.18
	assert.Equal(t, "18792", body["estimated_tax"])
	assert.Contains(t, body["explanation"], "₹ 18,792")
}

func TestEstimateTaxHandler_Form(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), nil)

	form := url.Values{"category": {"Car"}, "original_cost": {"500001"}, "age_years": {"0"}}
	req := httptest.NewRequest(http.MethodPost, "/vehicle-tax/estimate", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()

	handler.EstimateTax(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "0.14", decodeBody(t, w)["applied_tax_rate"])
}

func TestEstimateTaxHandler_InvalidInput(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), NewMetrics())

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"zero cost", `{"category":"Car","original_cost":0,"age_years":1}`, "original_cost"},
		{"negative age", `{"category":"Car","original_cost":1000,"age_years":-1}`, "age_years"},
		{"non numeric", `{"category":"Car","original_cost":"lots","age_years":1}`, "must be a number"},
		{"missing age", `{"category":"Car","original_cost":1000}`, "is required"},
		{"unknown category", `{"category":"Bus","original_cost":1000,"age_years":1}`, "category"},
		{"over limit", `{"category":"Car","original_cost":5000000000,"age_years":1}`, "exceeds the maximum"},
		{"tiny exponent", `{"category":"Car","original_cost":1e-20000000,"age_years":1}`, "plain decimal number"},
		{"huge exponent", `{"category":"Car","original_cost":"1e999999999","age_years":1}`, "plain decimal number"},
		{"huge exponent age", `{"category":"Car","original_cost":1000,"age_years":1e999999999}`, "plain decimal number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, handler.EstimateTax, tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, decodeBody(t, w)["error"], tt.wantMsg)
		})
	}
}

func TestEstimateTaxHandler_BadRequest(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), nil)

	w := postJSON(t, handler.EstimateTax, `{invalid-json}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "invalid request body", decodeBody(t, w)["error"])
}

func TestEstimateTaxHandler_MethodNotAllowed(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), nil)

	req := httptest.NewRequest(http.MethodGet, "/vehicle-tax/estimate", nil)
	w := httptest.NewRecorder()
	handler.EstimateTax(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestEstimateTaxHandler_UnsupportedMediaType(t *testing.T) {
	handler := NewEstimateHandler(newTestService(t), nil)

	req := httptest.NewRequest(http.MethodPost, "/vehicle-tax/estimate", strings.NewReader("category=Car"))
	req.Header.Set("Content-Type", "text/plain")
	w := httptest.NewRecorder()
	handler.EstimateTax(w, req)

	assert.Equal(t, http.StatusUnsupportedMediaType, w.Code)
	assert.Contains(t, decodeBody(t, w)["error"], "text/plain")
}

func TestTablesHandler(t *testing.T) {
	tables, err := rates.Default()
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/vehicle-tax/tables", nil)
	w := httptest.NewRecorder()
	TablesHandler(tables).ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp tablesResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "karnataka", resp.Name)
	assert.Len(t, resp.Depreciation, 15)
	require.Len(t, resp.TaxRates, 2)
	assert.Len(t, resp.TaxRates[0].Bands, 4)
	assert.Nil(t, resp.TaxRates[0].Bands[3].MaxCost)

	req = httptest.NewRequest(http.MethodPost, "/vehicle-tax/tables", nil)
	w = httptest.NewRecorder()
	TablesHandler(tables).ServeHTTP(w, req)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}
