package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportKind identifies which report a cache record holds.
type ReportKind string

const (
	ReportPerformance ReportKind = "performance"
	ReportAllocation  ReportKind = "allocation"
)

// CachedReport is a memoised report document.
// Payload is the JSON-encoded report; DataVersion is the fingerprint of the
// inputs it was computed from and is compared on read.
type CachedReport struct {
	PortfolioID uuid.UUID  `json:"portfolio_id"`
	Kind        ReportKind `json:"kind"`
	Key         string     `json:"key"`
	DataVersion string     `json:"data_version"`
	Payload     string     `json:"payload"`
	ComputedAt  time.Time  `json:"computed_at"`
}
