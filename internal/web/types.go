package web

import (
	"time"

	"github.com/example/prodplan/internal/domain"
)

// Amounts cross the wire as decimal strings so clients never round-trip the
// figures through binary floats.

// CreatePlanRequest is the body for POST /api/plans.
type CreatePlanRequest struct {
	InitialProduction string            `json:"initialProduction,omitempty"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ApplyAdjustmentRequest is the body for POST /api/plans/:id/adjustments.
type ApplyAdjustmentRequest struct {
	Amount string `json:"amount"`
	Reason string `json:"reason,omitempty"`
}

// AdjustmentView is the wire form of a recorded adjustment.
type AdjustmentView struct {
	ID        int64     `json:"id"`
	Seq       int       `json:"seq"`
	Amount    string    `json:"amount"`
	Reason    string    `json:"reason,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// PlanResponse is the wire form of a plan, including the derived production
// figure at the time of the read.
type PlanResponse struct {
	ID                string            `json:"id"`
	InitialProduction string            `json:"initialProduction"`
	Production        string            `json:"production"`
	Adjustments       []AdjustmentView  `json:"adjustments"`
	Metadata          map[string]string `json:"metadata,omitempty"`
	CreatedAt         time.Time         `json:"createdAt"`
	UpdatedAt         time.Time         `json:"updatedAt"`
}

// ProductionResponse is the response for GET /api/plans/:id/production.
type ProductionResponse struct {
	PlanID     string `json:"planId"`
	Production string `json:"production"`
}

// ApplyAdjustmentResponse is the response for POST /api/plans/:id/adjustments.
type ApplyAdjustmentResponse struct {
	PlanID     string         `json:"planId"`
	Adjustment AdjustmentView `json:"adjustment"`
	Production string         `json:"production"`
}

// ListAdjustmentsResponse is the response for GET /api/plans/:id/adjustments.
type ListAdjustmentsResponse struct {
	PlanID      string           `json:"planId"`
	Adjustments []AdjustmentView `json:"adjustments"`
}

// PlanSummary is a list entry for GET /api/plans/.
type PlanSummary struct {
	ID              string            `json:"id"`
	Production      string            `json:"production"`
	AdjustmentCount int               `json:"adjustmentCount"`
	Metadata        map[string]string `json:"metadata,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// ListPlansResponse is the response for GET /api/plans/.
type ListPlansResponse struct {
	Plans []PlanSummary `json:"plans"`
}

// ErrorResponse is the body of any non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

func adjustmentView(a domain.Adjustment) AdjustmentView {
	return AdjustmentView{
		ID:        a.ID,
		Seq:       a.Seq,
		Amount:    a.Amount.String(),
		Reason:    a.Reason,
		CreatedAt: a.CreatedAt,
	}
}

func planResponse(p *domain.ProductionPlan) PlanResponse {
	adjustments := make([]AdjustmentView, 0, len(p.Adjustments))
	for _, a := range p.Adjustments {
		adjustments = append(adjustments, adjustmentView(a))
	}
	return PlanResponse{
		ID:                p.ID,
		InitialProduction: p.InitialProduction.String(),
		Production:        p.Production().String(),
		Adjustments:       adjustments,
		Metadata:          p.Metadata,
		CreatedAt:         p.CreatedAt,
		UpdatedAt:         p.UpdatedAt,
	}
}
