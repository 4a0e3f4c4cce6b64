package service

import "time"

const (
	MaxVehicleCost     = 1_000_000_000 // 100 crore INR
	MaxVehicleAgeYears = 100

	Disclaimer = "This is an estimate only. The final tax amount is decided by the Karnataka RTO at the time of re-registration."

	explanationCachePrefix = "vehicle-tax:explain:"
	DefaultExplanationTTL  = 24 * time.Hour
)
