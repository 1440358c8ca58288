package endpoint

import (
	"context"
	"errors"
	"net/http"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/service"
	"github.com/example/prodplan/internal/storage"
)

// Endpoint is a function that takes a request and returns a response.
type Endpoint func(ctx context.Context, request any) (response any, err error)

// Endpoints holds all endpoint handlers.
type Endpoints struct {
	CreatePlan      Endpoint
	GetPlan         Endpoint
	GetProduction   Endpoint
	ApplyAdjustment Endpoint
	ListAdjustments Endpoint
	ListPlans       Endpoint
	DeletePlan      Endpoint
}

// MakeEndpoints creates all endpoints from the service.
func MakeEndpoints(svc *service.PlanService) Endpoints {
	return Endpoints{
		CreatePlan:      makeCreatePlanEndpoint(svc),
		GetPlan:         makeGetPlanEndpoint(svc),
		GetProduction:   makeGetProductionEndpoint(svc),
		ApplyAdjustment: makeApplyAdjustmentEndpoint(svc),
		ListAdjustments: makeListAdjustmentsEndpoint(svc),
		ListPlans:       makeListPlansEndpoint(svc),
		DeletePlan:      makeDeletePlanEndpoint(svc),
	}
}

func makeCreatePlanEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*service.CreatePlanRequest)
		return svc.CreatePlan(ctx, req)
	}
}

func makeGetPlanEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id := request.(string)
		if err := validatePlanID(id); err != nil {
			return nil, err
		}
		return svc.GetPlan(ctx, id)
	}
}

func makeGetProductionEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id := request.(string)
		if err := validatePlanID(id); err != nil {
			return nil, err
		}
		return svc.Production(ctx, id)
	}
}

func makeApplyAdjustmentEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		req := request.(*service.ApplyAdjustmentRequest)
		if err := validateApplyAdjustmentRequest(req); err != nil {
			return nil, err
		}
		return svc.ApplyAdjustment(ctx, req)
	}
}

func makeListAdjustmentsEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id := request.(string)
		if err := validatePlanID(id); err != nil {
			return nil, err
		}
		return svc.ListAdjustments(ctx, id)
	}
}

func makeListPlansEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		opts := request.(storage.ListOptions)
		return svc.ListPlans(ctx, opts)
	}
}

func makeDeletePlanEndpoint(svc *service.PlanService) Endpoint {
	return func(ctx context.Context, request any) (any, error) {
		id := request.(string)
		if err := validatePlanID(id); err != nil {
			return nil, err
		}
		return nil, svc.DeletePlan(ctx, id)
	}
}

// HTTPStatus maps domain errors to HTTP status codes.
func HTTPStatus(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidArgument):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrConcurrentModify):
		return http.StatusConflict
	case errors.Is(err, domain.ErrAlreadyExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
