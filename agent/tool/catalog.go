package tool

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	"github.com/tourwise/leasing-concierge/leasing"
)

const (
	ToolCheckAvailability = "leasing.check_availability"
	ToolCheckPetPolicy    = "leasing.check_pet_policy"
	ToolGetPricing        = "leasing.get_pricing"
	ToolGetTourSlots      = "leasing.get_tour_slots"
)

// unavailableResult replaces any storage-layer failure before it reaches the
// oracle, so the model can still produce a graceful reply.
const unavailableResult = "unable to retrieve information at this time"

type Executor func(ctx context.Context, tool string, args map[string]any) contractx.ToolResult

// Infos declares the closed set of domain operations callable by the oracle.
func Infos() []*schema.ToolInfo {
	return []*schema.ToolInfo{
		{
			Name: ToolCheckAvailability,
			Desc: "List currently available units in a community, optionally filtered to an exact bedroom count.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"community_id": {Type: schema.String, Desc: "Community identifier", Required: true},
				"bedrooms":     {Type: schema.Integer, Desc: "Exact bedroom count filter"},
			}),
		},
		{
			Name: ToolCheckPetPolicy,
			Desc: "Look up the pet policy for a pet type in a community. The type match is case-insensitive.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"community_id": {Type: schema.String, Desc: "Community identifier", Required: true},
				"pet_type":     {Type: schema.String, Desc: "Pet type, e.g. dog or cat", Required: true},
			}),
		},
		{
			Name: ToolGetPricing,
			Desc: "Get current rent, deposit, and fees for a unit. The most recent effective pricing applies.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"community_id": {Type: schema.String, Desc: "Community identifier", Required: true},
				"unit_id":      {Type: schema.String, Desc: "Unit identifier", Required: true},
				"move_in_date": {Type: schema.String, Desc: "Intended move-in date, ISO 8601"},
			}),
		},
		{
			Name: ToolGetTourSlots,
			Desc: "List upcoming tour times with open capacity for a community.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"community_id": {Type: schema.String, Desc: "Community identifier", Required: true},
				"limit":        {Type: schema.Integer, Desc: "Maximum number of times to return, default 5"},
			}),
		},
	}
}

// NewExecutor builds an executor bridging tool requests to the leasing
// service. Storage faults are swallowed into a placeholder error result;
// unknown tools get an unavailable result in the same shape.
func NewExecutor(svc *leasing.Service) Executor {
	return func(ctx context.Context, tool string, args map[string]any) contractx.ToolResult {
		switch tool {
		case ToolCheckAvailability:
			return executeCheckAvailability(ctx, svc, args)
		case ToolCheckPetPolicy:
			return executeCheckPetPolicy(ctx, svc, args)
		case ToolGetPricing:
			return executeGetPricing(ctx, svc, args)
		case ToolGetTourSlots:
			return executeGetTourSlots(ctx, svc, args)
		default:
			return contractx.ToolResult{
				Tool:  tool,
				Error: fmt.Sprintf("tool=%s is unavailable", tool),
			}
		}
	}
}

// Gateway runs requested invocations sequentially in oracle order, capturing
// each request/result pair.
type Gateway struct {
	execute Executor
}

var _ contractx.ToolGateway = (*Gateway)(nil)

func NewGateway(svc *leasing.Service) *Gateway {
	return &Gateway{execute: NewExecutor(svc)}
}

func (g *Gateway) Execute(ctx context.Context, reqs []contractx.ToolRequest) []contractx.ToolInvocation {
	invocations := make([]contractx.ToolInvocation, 0, len(reqs))
	for _, req := range reqs {
		invocations = append(invocations, contractx.ToolInvocation{
			Request: req,
			Result:  g.execute(ctx, req.Tool, req.Args),
		})
	}
	return invocations
}
