package orchestrator

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"

	"github.com/tourwise/leasing-concierge/agent/classifier"
	contractx "github.com/tourwise/leasing-concierge/agent/contract"
)

type graphState struct {
	Req contractx.InquiryRequest

	OracleReq   contractx.OracleRequest
	Invocations []contractx.ToolInvocation
	Usage       contractx.TokenUsage

	Reply          string
	Classification classifier.Classification
}

type graphOutput struct {
	Reply          string
	Classification classifier.Classification
	Invocations    []contractx.ToolInvocation
	Usage          contractx.TokenUsage
}

func (o *Orchestrator) compileInquiryGraph(
	ctx context.Context,
) (compose.Runnable[contractx.InquiryRequest, graphOutput], error) {
	graph := compose.NewGraph[contractx.InquiryRequest, graphOutput]()

	if err := graph.AddLambdaNode("validate_request",
		compose.InvokableLambda(func(ctx context.Context, req contractx.InquiryRequest) (*graphState, error) {
			return validateRequest(req)
		}),
	); err != nil {
		return nil, fmt.Errorf("add node validate_request: %w", err)
	}

	if err := graph.AddLambdaNode("plan_oracle",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			resp, err := o.oracle.Plan(ctx, in.OracleReq)
			if err != nil {
				return nil, err
			}
			in.Reply = resp.Message
			in.Usage = addUsage(in.Usage, resp.Usage)

			if len(resp.ToolCalls) > 0 {
				in.Invocations = o.tools.Execute(ctx, resp.ToolCalls)
			}
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node plan_oracle: %w", err)
	}

	if err := graph.AddLambdaNode("finalize_reply",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (*graphState, error) {
			// A second oracle round is needed only when tools ran; otherwise
			// the planning reply is already user-facing.
			if len(in.Invocations) == 0 {
				return in, nil
			}
			resp, err := o.oracle.Finalize(ctx, in.OracleReq, in.Invocations)
			if err != nil {
				return nil, err
			}
			in.Reply = resp.Message
			in.Usage = addUsage(in.Usage, resp.Usage)
			return in, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node finalize_reply: %w", err)
	}

	if err := graph.AddLambdaNode("classify_action",
		compose.InvokableLambda(func(ctx context.Context, in *graphState) (graphOutput, error) {
			if strings.TrimSpace(in.Reply) == "" {
				return graphOutput{}, fmt.Errorf("%w: oracle produced an empty reply", contractx.ErrSchemaViolation)
			}
			return graphOutput{
				Reply:          in.Reply,
				Classification: classifier.Classify(in.Reply, in.Invocations),
				Invocations:    in.Invocations,
				Usage:          in.Usage,
			}, nil
		}),
	); err != nil {
		return nil, fmt.Errorf("add node classify_action: %w", err)
	}

	edges := [][2]string{
		{compose.START, "validate_request"},
		{"validate_request", "plan_oracle"},
		{"plan_oracle", "finalize_reply"},
		{"finalize_reply", "classify_action"},
		{"classify_action", compose.END},
	}
	for _, edge := range edges {
		if err := graph.AddEdge(edge[0], edge[1]); err != nil {
			return nil, fmt.Errorf("add edge %s->%s: %w", edge[0], edge[1], err)
		}
	}

	runner, err := graph.Compile(ctx, compose.WithGraphName("orchestrator.process_message"))
	if err != nil {
		return nil, fmt.Errorf("compile inquiry graph: %w", err)
	}
	return runner, nil
}

func validateRequest(req contractx.InquiryRequest) (*graphState, error) {
	message := strings.TrimSpace(req.Message)
	if message == "" {
		return nil, fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.CommunityID) == "" {
		return nil, fmt.Errorf("%w: community id is required", contractx.ErrValidation)
	}
	if strings.TrimSpace(req.Lead.Name) == "" || strings.TrimSpace(req.Lead.Email) == "" {
		return nil, fmt.Errorf("%w: lead name and email are required", contractx.ErrValidation)
	}

	return &graphState{
		Req: req,
		OracleReq: contractx.OracleRequest{
			Message:     message,
			Lead:        req.Lead,
			Preferences: req.Preferences,
			CommunityID: strings.TrimSpace(req.CommunityID),
		},
	}, nil
}

func addUsage(a, b contractx.TokenUsage) contractx.TokenUsage {
	return contractx.TokenUsage{
		PromptTokens:     a.PromptTokens + b.PromptTokens,
		CompletionTokens: a.CompletionTokens + b.CompletionTokens,
	}
}
