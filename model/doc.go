// Package model contains data structures representing iCalendar components.
//
// These types are produced by the ical package's decoder and are designed for readability.
// The package reflects RFC 5545 concepts while remaining ergonomic in Go.
package model
