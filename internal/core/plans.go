package core

import (
	"fmt"

	"github.com/naveensing575/next-pay-flow/internal/models"
)

// planPrices is the purchasable plan -> price table in INR. The free plan is
// not purchasable and deliberately absent.
var planPrices = map[string]int64{
	models.PlanBasic:        5,
	models.PlanProfessional: 25,
	models.PlanBusiness:     45,
}

var planNames = map[string]string{
	models.PlanBasic:        "Basic Plan",
	models.PlanProfessional: "Professional Plan",
	models.PlanBusiness:     "Business Plan",
}

// PlanPrice returns the price in INR for a purchasable plan.
func PlanPrice(planID string) (int64, error) {
	price, ok := planPrices[planID]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPlan, planID)
	}
	return price, nil
}

// PlanAmountPaise returns the checkout amount in minor currency units
// (price x 100).
func PlanAmountPaise(planID string) (int64, error) {
	price, err := PlanPrice(planID)
	if err != nil {
		return 0, err
	}
	return price * 100, nil
}

// PlanName returns a display name for the plan, falling back to the id.
func PlanName(planID string) string {
	if name, ok := planNames[planID]; ok {
		return name
	}
	return planID
}
