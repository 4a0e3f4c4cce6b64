package domain

import (
	"fmt"
	"strings"
)

// VehicleCategory is the closed set of vehicle kinds with their own tax schedule.
type VehicleCategory string

const (
	Car        VehicleCategory = "Car"
	Motorcycle VehicleCategory = "Motorcycle"
)

// Categories lists every supported category in display order.
var Categories = []VehicleCategory{Car, Motorcycle}

var categoryAliases = map[string]VehicleCategory{
	"car":         Car,
	"jeep":        Car,
	"omni":        Car,
	"motorcycle":  Motorcycle,
	"motorbike":   Motorcycle,
	"two-wheeler": Motorcycle,
}

func ParseVehicleCategory(s string) (VehicleCategory, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if c, ok := categoryAliases[key]; ok {
		return c, nil
	}
	return "", &InvalidInputError{
		Field:  "category",
		Value:  s,
		Reason: fmt.Sprintf("must be one of %s", strings.Join(categoryNames(), ", ")),
	}
}

func (c VehicleCategory) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Label is the user-facing description shown next to the form option.
func (c VehicleCategory) Label() string {
	switch c {
	case Car:
		return "Motor Car / Jeep / Omni"
	case Motorcycle:
		return "Motorcycle / Two-Wheeler"
	}
	return string(c)
}

func categoryNames() []string {
	names := make([]string, 0, len(Categories))
	for _, c := range Categories {
		names = append(names, string(c))
	}
	return names
}
