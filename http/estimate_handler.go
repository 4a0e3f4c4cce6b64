package http

import (
	"errors"
	"fmt"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"vehicle-tax/domain"
	"vehicle-tax/service"
)

const maxBodyBytes = 64 << 10

type EstimateHandler struct {
	service *service.TaxService
	metrics *Metrics
}

func NewEstimateHandler(service *service.TaxService, metrics *Metrics) *EstimateHandler {
	return &EstimateHandler{service: service, metrics: metrics}
}

// numberField accepts either a JSON number or a JSON string, since form
// front-ends usually send whatever the user typed.
type numberField string

func (n *numberField) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	switch {
	case s == "null":
		*n = ""
	case strings.HasPrefix(s, `"`):
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		*n = numberField(str)
	default:
		*n = numberField(s)
	}
	return nil
}

type estimateRequestBody struct {
	Category     string      `json:"category"`
	OriginalCost numberField `json:"original_cost"`
	AgeYears     numberField `json:"age_years"`
	Explain      bool        `json:"explain"`
}

type estimateResponse struct {
	domain.EstimateResult
	Category                  domain.VehicleCategory `json:"category"`
	FormattedTax              string                 `json:"formatted_tax"`
	FormattedDepreciatedValue string                 `json:"formatted_depreciated_value"`
}

func (h *EstimateHandler) EstimateTax(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	log := zerolog.Ctx(r.Context())

	body, err := decodeEstimateBody(w, r)
	if err != nil {
		var ue *unsupportedMediaError
		if errors.As(err, &ue) {
			writeError(w, r, http.StatusUnsupportedMediaType, err.Error())
			return
		}
		log.Debug().Err(err).Msg("decode estimate request")
		writeError(w, r, http.StatusBadRequest, "invalid request body")
		return
	}
	if v := r.URL.Query().Get("explain"); v != "" {
		body.Explain, _ = strconv.ParseBool(v)
	}

	req, err := domain.ParseEstimateForm(body.Category, string(body.OriginalCost), string(body.AgeYears))
	if err != nil {
		h.metrics.ObserveEstimate(body.Category, outcomeInvalid)
		writeError(w, r, http.StatusBadRequest, domain.UserMessage(err))
		return
	}

	result, err := h.service.EstimateTax(r.Context(), req, service.EstimateOptions{Explain: body.Explain})
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			h.metrics.ObserveEstimate(string(req.Category), outcomeInvalid)
			writeError(w, r, http.StatusBadRequest, domain.UserMessage(err))
			return
		}
		h.metrics.ObserveEstimate(string(req.Category), outcomeError)
		log.Error().Err(err).Msg("estimate failed")
		writeError(w, r, http.StatusInternalServerError, domain.UserMessage(err))
		return
	}

	h.metrics.ObserveEstimate(string(req.Category), outcomeOK)
	writeJSON(w, r, http.StatusOK, estimateResponse{
		EstimateResult:            result,
		Category:                  req.Category,
		FormattedTax:              service.FormatINR(result.EstimatedTax),
		FormattedDepreciatedValue: service.FormatINR(result.DepreciatedValue),
	})
}

type unsupportedMediaError struct{ contentType string }

func (e *unsupportedMediaError) Error() string {
	return fmt.Sprintf("unsupported Content-Type %q: use application/json or application/x-www-form-urlencoded", e.contentType)
}

func decodeEstimateBody(w http.ResponseWriter, r *http.Request) (estimateRequestBody, error) {
	var body estimateRequestBody
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return body, err
		}
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return body, err
		}
		body.Category = r.PostForm.Get("category")
		body.OriginalCost = numberField(r.PostForm.Get("original_cost"))
		body.AgeYears = numberField(r.PostForm.Get("age_years"))
		body.Explain, _ = strconv.ParseBool(r.PostForm.Get("explain"))
	default:
		return body, &unsupportedMediaError{contentType: mediaType}
	}
	return body, nil
}
