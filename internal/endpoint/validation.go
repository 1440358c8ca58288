package endpoint

import (
	"fmt"

	"github.com/example/prodplan/internal/domain"
	"github.com/example/prodplan/internal/service"
)

// The endpoint layer is the boundary responsible for input validation. The
// domain deliberately accepts any amount; malformed requests stop here.

func validatePlanID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: plan id is required", domain.ErrInvalidArgument)
	}
	return nil
}

func validateApplyAdjustmentRequest(req *service.ApplyAdjustmentRequest) error {
	if err := validatePlanID(req.PlanID); err != nil {
		return err
	}
	if len(req.Reason) > 1024 {
		return fmt.Errorf("%w: reason exceeds 1024 characters", domain.ErrInvalidArgument)
	}
	return nil
}
