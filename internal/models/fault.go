package models

import (
	"fmt"
	"time"
)

// FaultKind classifies a local problem encountered while computing a report.
// Faults never abort a report; they mark the metric or day they affect.
type FaultKind string

const (
	// FaultDataGap: an asset had no price on or before a valuation day.
	FaultDataGap FaultKind = "data_gap"
	// FaultDegenerateDivision: a metric divided by a zero base and is undefined.
	FaultDegenerateDivision FaultKind = "degenerate_division"
	// FaultNonConvergence: the XIRR solver could not bracket or converge.
	FaultNonConvergence FaultKind = "non_convergence"
	// FaultPositionConsistency: a SELL exceeded the held quantity and was not applied.
	FaultPositionConsistency FaultKind = "position_consistency"
)

// Fault describes one data or numerical problem scoped to an asset, day or metric.
type Fault struct {
	Kind    FaultKind  `json:"kind"`
	AssetID string     `json:"asset_id,omitempty"`
	Date    *time.Time `json:"date,omitempty"`
	Metric  string     `json:"metric,omitempty"`
	Message string     `json:"message"`
}

// DataGapFault records that assetID was excluded from the valuation of day.
func DataGapFault(assetID string, day time.Time) Fault {
	d := day
	return Fault{
		Kind:    FaultDataGap,
		AssetID: assetID,
		Date:    &d,
		Message: fmt.Sprintf("no price for %s on or before %s", assetID, day.Format(DateFormat)),
	}
}

// DegenerateDivisionFault records that metric is undefined because its base was zero.
func DegenerateDivisionFault(metric, message string) Fault {
	return Fault{Kind: FaultDegenerateDivision, Metric: metric, Message: message}
}

// NonConvergenceFault records that metric's solver failed.
func NonConvergenceFault(metric, message string) Fault {
	return Fault{Kind: FaultNonConvergence, Metric: metric, Message: message}
}

// PositionConsistencyFault records a SELL that would have taken assetID negative.
func PositionConsistencyFault(assetID string, day time.Time, held, sold string) Fault {
	d := day
	return Fault{
		Kind:    FaultPositionConsistency,
		AssetID: assetID,
		Date:    &d,
		Message: fmt.Sprintf("sell of %s units of %s exceeds held quantity %s; transaction skipped", sold, assetID, held),
	}
}

// CountFaults tallies faults by kind.
func CountFaults(faults []Fault) map[FaultKind]int {
	counts := make(map[FaultKind]int)
	for _, f := range faults {
		counts[f.Kind]++
	}
	return counts
}
