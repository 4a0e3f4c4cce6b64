package http

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"vehicle-tax/service"
)

type RouterDeps struct {
	Service     *service.TaxService
	RateLimiter *RateLimiter
	InFlight    *InFlightLimiter
	Metrics     *Metrics
	Logger      zerolog.Logger
	Ping        func(context.Context) error
}

func NewRouter(d RouterDeps) http.Handler {
	estimateHandler := NewEstimateHandler(d.Service, d.Metrics)

	var estimate http.Handler = http.HandlerFunc(estimateHandler.EstimateTax)
	if d.InFlight != nil {
		estimate = InFlightMiddleware(d.InFlight, estimate)
	}
	if d.RateLimiter != nil {
		estimate = RateLimitMiddleware(d.RateLimiter, estimate)
	}

	mux := http.NewServeMux()
	mux.Handle("/vehicle-tax/estimate", d.Metrics.Instrument("estimate", estimate))
	mux.Handle("/vehicle-tax/tables", d.Metrics.Instrument("tables", TablesHandler(d.Service.Tables())))
	mux.Handle("/healthz", HealthHandler(d.Ping))
	if d.Metrics != nil {
		mux.Handle("/metrics", d.Metrics.Handler())
	}

	return RequestLogMiddleware(d.Logger, mux)
}
