// Package model contains domain models passed between layers.
package model

import "time"

// Quake represents one earthquake record from the catalog.
// Fields mirror the USGS summary CSV schema.
type Quake struct {
	ID        string    `json:"id"`        // unique id used for dedup/identity
	Time      time.Time `json:"time"`      // event instant, UTC
	Latitude  *float64  `json:"latitude"`  // degrees; nil when not a number
	Longitude *float64  `json:"longitude"` // degrees; nil when not a number
	Depth     *float64  `json:"depth"`     // kilometers; may be negative, nil when unmeasured
	Magnitude *float64  `json:"magnitude"` // nil when unmeasured
	Place     string    `json:"place"`     // free-text description, keyword search target
	Type      string    `json:"type"`      // categorical event type, e.g. "earthquake"
	Region    string    `json:"region"`    // derived grouping label, "Unknown" when underivable
}

// HasMagnitude reports whether the row carries a measured magnitude.
func (q Quake) HasMagnitude() bool { return q.Magnitude != nil }

// HasDepth reports whether the row carries a measured depth.
func (q Quake) HasDepth() bool { return q.Depth != nil }

// HasCoordinates reports whether the row can be placed on a map.
func (q Quake) HasCoordinates() bool { return q.Latitude != nil && q.Longitude != nil }

// Float64Ptr returns a pointer to v. Convenience for building nullable fields.
func Float64Ptr(v float64) *float64 { return &v }
