package riskLevel

import (
	"snpdna/api/models/constants"
)

const (
	Low      constants.RiskLevel = "LOW"
	Moderate constants.RiskLevel = "MODERATE"
	High     constants.RiskLevel = "HIGH"
)

// FromScore buckets a 0..10 risk score into a risk level.
func FromScore(score float64) constants.RiskLevel {
	switch {
	case score >= 7:
		return High
	case score >= 4:
		return Moderate
	default:
		return Low
	}
}
