// Package main provides CMA-ES optimization for habitat resource allotments.
package main

import (
	"github.com/pthm-cable/habitat/components"
	"github.com/pthm-cable/habitat/config"
)

// ParamSpec defines a single optimizable parameter.
type ParamSpec struct {
	Name    string  // Human-readable name
	Path    string  // Config path for logging
	Min     float64 // Lower bound
	Max     float64 // Upper bound
	Default float64 // Default value
}

// ParamVector holds the set of all optimizable parameters.
type ParamVector struct {
	Specs []ParamSpec
}

// NewParamVector creates the allotment parameters, expressed as fractions of
// the configured habitat's monthly pools.
func NewParamVector() *ParamVector {
	return &ParamVector{
		Specs: []ParamSpec{
			{Name: "food_fraction", Path: "habitats[].monthly_food", Min: 0.01, Max: 2.0, Default: 1.0},
			{Name: "water_fraction", Path: "habitats[].monthly_water", Min: 0.01, Max: 2.0, Default: 1.0},
		},
	}
}

// Dim returns the number of parameters.
func (pv *ParamVector) Dim() int {
	return len(pv.Specs)
}

// DefaultVector returns the default parameter values as a slice.
func (pv *ParamVector) DefaultVector() []float64 {
	v := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		v[i] = spec.Default
	}
	return v
}

// Normalize converts raw parameter values to [0,1] range.
func (pv *ParamVector) Normalize(raw []float64) []float64 {
	normalized := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		normalized[i] = (raw[i] - spec.Min) / (spec.Max - spec.Min)
	}
	return normalized
}

// Denormalize converts [0,1] values back to raw parameter values.
func (pv *ParamVector) Denormalize(normalized []float64) []float64 {
	raw := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		raw[i] = spec.Min + normalized[i]*(spec.Max-spec.Min)
	}
	return raw
}

// Clamp ensures all values are within bounds.
func (pv *ParamVector) Clamp(v []float64) []float64 {
	clamped := make([]float64, len(pv.Specs))
	for i, spec := range pv.Specs {
		val := v[i]
		if val < spec.Min {
			val = spec.Min
		}
		if val > spec.Max {
			val = spec.Max
		}
		clamped[i] = val
	}
	return clamped
}

// Cost is the total allotment relative to the base habitat.
func (pv *ParamVector) Cost(values []float64) float64 {
	var sum float64
	for _, v := range pv.Clamp(values) {
		sum += v
	}
	return sum
}

// ApplyToHabitat returns a copy of base with scaled pools.
// Order must match Specs order.
func (pv *ParamVector) ApplyToHabitat(base components.Habitat, values []float64) components.Habitat {
	clamped := pv.Clamp(values)
	h := base
	h.MonthlyFood = base.MonthlyFood * clamped[0]
	h.MonthlyWater = base.MonthlyWater * clamped[1]
	return h
}

// ToConfig converts a habitat back to its configuration entry.
func ToConfig(h components.Habitat) config.HabitatConfig {
	food, water := h.MonthlyFood, h.MonthlyWater
	temps := make(map[string]float64, len(components.Seasons))
	for _, season := range components.Seasons {
		temps[string(season)] = h.BaselineTemperature(season)
	}
	return config.HabitatConfig{
		Name:               h.Name,
		MonthlyFood:        &food,
		MonthlyWater:       &water,
		AverageTemperature: temps,
	}
}
