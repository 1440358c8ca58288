package web

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/endpoint"
	"github.com/example/prodplan/internal/service"
	"github.com/example/prodplan/internal/storage"
)

// Handlers contains HTTP handlers for the plan API.
type Handlers struct {
	endpoints endpoint.Endpoints
	logger    *zap.Logger
}

// NewHandlers creates new API handlers.
func NewHandlers(endpoints endpoint.Endpoints, logger *zap.Logger) *Handlers {
	return &Handlers{
		endpoints: endpoints,
		logger:    logger,
	}
}

// CreatePlan handles POST /api/plans/
func (h *Handlers) CreatePlan(w http.ResponseWriter, r *http.Request) {
	var body CreatePlanRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err))
		return
	}

	req := &service.CreatePlanRequest{Metadata: body.Metadata}
	if body.InitialProduction != "" {
		initial, err := decimal.NewFromString(body.InitialProduction)
		if err != nil {
			h.writeError(w, fmt.Errorf("%w: initialProduction %q is not a decimal", domain.ErrInvalidArgument, body.InitialProduction))
			return
		}
		req.InitialProduction = &initial
	}

	resp, err := h.endpoints.CreatePlan(r.Context(), req)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusCreated, planResponse(resp.(*domain.ProductionPlan)))
}

// ListPlans handles GET /api/plans/
func (h *Handlers) ListPlans(w http.ResponseWriter, r *http.Request) {
	opts := storage.ListOptions{}
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			h.writeError(w, fmt.Errorf("%w: invalid limit %q", domain.ErrInvalidArgument, v))
			return
		}
		opts.Limit = limit
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		offset, err := strconv.Atoi(v)
		if err != nil || offset < 0 {
			h.writeError(w, fmt.Errorf("%w: invalid offset %q", domain.ErrInvalidArgument, v))
			return
		}
		opts.Offset = offset
	}

	resp, err := h.endpoints.ListPlans(r.Context(), opts)
	if err != nil {
		h.writeError(w, err)
		return
	}

	plans := resp.([]*domain.ProductionPlan)
	out := ListPlansResponse{Plans: make([]PlanSummary, 0, len(plans))}
	for _, p := range plans {
		out.Plans = append(out.Plans, PlanSummary{
			ID:              p.ID,
			Production:      p.Production().String(),
			AdjustmentCount: len(p.Adjustments),
			Metadata:        p.Metadata,
			CreatedAt:       p.CreatedAt,
			UpdatedAt:       p.UpdatedAt,
		})
	}

	h.writeJSON(w, http.StatusOK, out)
}

// GetPlan handles GET /api/plans/:id
func (h *Handlers) GetPlan(w http.ResponseWriter, r *http.Request) {
	resp, err := h.endpoints.GetPlan(r.Context(), planIDFromPath(r))
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, planResponse(resp.(*domain.ProductionPlan)))
}

// DeletePlan handles DELETE /api/plans/:id
func (h *Handlers) DeletePlan(w http.ResponseWriter, r *http.Request) {
	if _, err := h.endpoints.DeletePlan(r.Context(), planIDFromPath(r)); err != nil {
		h.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetProduction handles GET /api/plans/:id/production
func (h *Handlers) GetProduction(w http.ResponseWriter, r *http.Request) {
	planID := planIDFromPath(r)

	resp, err := h.endpoints.GetProduction(r.Context(), planID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	h.writeJSON(w, http.StatusOK, ProductionResponse{
		PlanID:     planID,
		Production: resp.(decimal.Decimal).String(),
	})
}

// ApplyAdjustment handles POST /api/plans/:id/adjustments
func (h *Handlers) ApplyAdjustment(w http.ResponseWriter, r *http.Request) {
	planID := planIDFromPath(r)

	var body ApplyAdjustmentRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		h.writeError(w, fmt.Errorf("%w: invalid JSON body: %v", domain.ErrInvalidArgument, err))
		return
	}
	if body.Amount == "" {
		h.writeError(w, fmt.Errorf("%w: amount is required", domain.ErrInvalidArgument))
		return
	}

	amount, err := decimal.NewFromString(body.Amount)
	if err != nil {
		h.writeError(w, fmt.Errorf("%w: amount %q is not a decimal", domain.ErrInvalidArgument, body.Amount))
		return
	}

	resp, err := h.endpoints.ApplyAdjustment(r.Context(), &service.ApplyAdjustmentRequest{
		PlanID: planID,
		Amount: amount,
		Reason: body.Reason,
	})
	if err != nil {
		h.writeError(w, err)
		return
	}

	applied := resp.(*service.ApplyAdjustmentResponse)
	h.writeJSON(w, http.StatusCreated, ApplyAdjustmentResponse{
		PlanID:     planID,
		Adjustment: adjustmentView(applied.Adjustment),
		Production: applied.Production.String(),
	})
}

// ListAdjustments handles GET /api/plans/:id/adjustments
func (h *Handlers) ListAdjustments(w http.ResponseWriter, r *http.Request) {
	planID := planIDFromPath(r)

	resp, err := h.endpoints.ListAdjustments(r.Context(), planID)
	if err != nil {
		h.writeError(w, err)
		return
	}

	adjustments := resp.([]domain.Adjustment)
	out := ListAdjustmentsResponse{
		PlanID:      planID,
		Adjustments: make([]AdjustmentView, 0, len(adjustments)),
	}
	for _, a := range adjustments {
		out.Adjustments = append(out.Adjustments, adjustmentView(a))
	}

	h.writeJSON(w, http.StatusOK, out)
}

// planIDFromPath extracts the plan ID segment from /api/plans/{id}[/...].
func planIDFromPath(r *http.Request) string {
	path := strings.TrimPrefix(r.URL.Path, "/api/plans/")
	if i := strings.IndexByte(path, '/'); i >= 0 {
		path = path[:i]
	}
	return path
}

func (h *Handlers) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Warn("failed to encode response", zap.Error(err))
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, err error) {
	status := endpoint.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Error(err))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(ErrorResponse{Error: err.Error()})
}
