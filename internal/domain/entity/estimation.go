package entity

import "github.com/shopspring/decimal"

// VoyageEstimation is the cost estimation of one voyage. Every value may be null.
type VoyageEstimation struct {
	VoyageID        int64               `json:"voyage_id"`
	EstimationCost1 decimal.NullDecimal `json:"estimation_cost1"`
	EstimationCost2 decimal.NullDecimal `json:"estimation_cost2"`
	FinalCost       decimal.NullDecimal `json:"final_cost"`
	ComputedAt      *string             `json:"computed_at"`
}

// EmptyEstimation is stored when the backend has nothing for a voyage
func EmptyEstimation(voyageID int64) VoyageEstimation {
	return VoyageEstimation{VoyageID: voyageID}
}
