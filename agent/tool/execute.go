package tool

import (
	"context"
	"errors"
	"time"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	"github.com/tourwise/leasing-concierge/leasing"
)

type UnitSummary struct {
	UnitNumber  string  `json:"unit_number"`
	Bedrooms    int     `json:"bedrooms"`
	Bathrooms   float64 `json:"bathrooms"`
	SquareFeet  int     `json:"square_feet,omitempty"`
	Description string  `json:"description,omitempty"`
}

type AvailabilityOutput struct {
	Units []UnitSummary `json:"units"`
}

type PetPolicyOutput struct {
	Found        bool     `json:"found"`
	Allowed      bool     `json:"allowed,omitempty"`
	Fee          float64  `json:"fee,omitempty"`
	Notes        string   `json:"notes,omitempty"`
	Restrictions []string `json:"restrictions,omitempty"`
}

type PricingOutput struct {
	Found          bool    `json:"found"`
	Rent           float64 `json:"rent,omitempty"`
	Deposit        float64 `json:"deposit,omitempty"`
	ApplicationFee float64 `json:"application_fee,omitempty"`
	AdminFee       float64 `json:"admin_fee,omitempty"`
	SpecialOffer   string  `json:"special_offer,omitempty"`
}

type TourSlotsOutput struct {
	AvailableTimes []string `json:"available_times"`
}

func executeCheckAvailability(ctx context.Context, svc *leasing.Service, args map[string]any) contractx.ToolResult {
	communityID, ok := stringArg(args, "community_id")
	if !ok {
		return contractx.ToolResult{Tool: ToolCheckAvailability, Error: "community_id is required"}
	}

	var bedrooms *int
	if n, ok := intArg(args, "bedrooms"); ok {
		bedrooms = &n
	}

	units, err := svc.CheckAvailability(ctx, communityID, bedrooms)
	if err != nil {
		return contractx.ToolResult{Tool: ToolCheckAvailability, Error: unavailableResult}
	}

	out := AvailabilityOutput{Units: make([]UnitSummary, 0, len(units))}
	for _, u := range units {
		out.Units = append(out.Units, UnitSummary{
			UnitNumber:  u.UnitNumber,
			Bedrooms:    u.Bedrooms,
			Bathrooms:   u.Bathrooms,
			SquareFeet:  u.SquareFeet,
			Description: u.Description,
		})
	}
	return contractx.ToolResult{Tool: ToolCheckAvailability, Result: out}
}

func executeCheckPetPolicy(ctx context.Context, svc *leasing.Service, args map[string]any) contractx.ToolResult {
	communityID, ok := stringArg(args, "community_id")
	if !ok {
		return contractx.ToolResult{Tool: ToolCheckPetPolicy, Error: "community_id is required"}
	}
	petType, ok := stringArg(args, "pet_type")
	if !ok {
		return contractx.ToolResult{Tool: ToolCheckPetPolicy, Error: "pet_type is required"}
	}

	policy, err := svc.CheckPetPolicy(ctx, communityID, petType)
	if errors.Is(err, leasing.ErrNotFound) {
		return contractx.ToolResult{Tool: ToolCheckPetPolicy, Result: PetPolicyOutput{Found: false}}
	}
	if err != nil {
		return contractx.ToolResult{Tool: ToolCheckPetPolicy, Error: unavailableResult}
	}

	return contractx.ToolResult{Tool: ToolCheckPetPolicy, Result: PetPolicyOutput{
		Found:        true,
		Allowed:      policy.Allowed,
		Fee:          policy.Fee,
		Notes:        policy.Notes,
		Restrictions: policy.Restrictions,
	}}
}

func executeGetPricing(ctx context.Context, svc *leasing.Service, args map[string]any) contractx.ToolResult {
	communityID, ok := stringArg(args, "community_id")
	if !ok {
		return contractx.ToolResult{Tool: ToolGetPricing, Error: "community_id is required"}
	}
	unitID, ok := stringArg(args, "unit_id")
	if !ok {
		return contractx.ToolResult{Tool: ToolGetPricing, Error: "unit_id is required"}
	}
	// move_in_date is declared to the oracle but has no effect: the latest
	// effective pricing row always applies.

	pricing, err := svc.GetPricing(ctx, communityID, unitID)
	if errors.Is(err, leasing.ErrNotFound) {
		return contractx.ToolResult{Tool: ToolGetPricing, Result: PricingOutput{Found: false}}
	}
	if err != nil {
		return contractx.ToolResult{Tool: ToolGetPricing, Error: unavailableResult}
	}

	return contractx.ToolResult{Tool: ToolGetPricing, Result: PricingOutput{
		Found:          true,
		Rent:           pricing.Rent,
		Deposit:        pricing.Deposit,
		ApplicationFee: pricing.ApplicationFee,
		AdminFee:       pricing.AdminFee,
		SpecialOffer:   pricing.SpecialOffer,
	}}
}

func executeGetTourSlots(ctx context.Context, svc *leasing.Service, args map[string]any) contractx.ToolResult {
	communityID, ok := stringArg(args, "community_id")
	if !ok {
		return contractx.ToolResult{Tool: ToolGetTourSlots, Error: "community_id is required"}
	}

	limit := 0
	if n, ok := intArg(args, "limit"); ok {
		limit = n
	}

	times, err := svc.GetAvailableTourSlots(ctx, communityID, limit)
	if err != nil {
		return contractx.ToolResult{Tool: ToolGetTourSlots, Error: unavailableResult}
	}

	out := TourSlotsOutput{AvailableTimes: make([]string, 0, len(times))}
	for _, t := range times {
		out.AvailableTimes = append(out.AvailableTimes, t.UTC().Format(time.RFC3339))
	}
	return contractx.ToolResult{Tool: ToolGetTourSlots, Result: out}
}

func stringArg(args map[string]any, key string) (string, bool) {
	raw, ok := args[key]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	if !ok || s == "" {
		return "", false
	}
	return s, true
}

// intArg tolerates float64, the type JSON decoding hands back for numbers.
func intArg(args map[string]any, key string) (int, bool) {
	switch v := args[key].(type) {
	case int:
		return v, true
	case int64:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
