// Package oracle adapts an OpenRouter-hosted chat model to the narrow
// contract the orchestrator consumes: a planning round that may request
// domain-tool invocations, and a finalize round that turns tool results into
// the user-facing reply.
package oracle

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/compose"
	"github.com/cloudwego/eino/schema"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	promptx "github.com/tourwise/leasing-concierge/agent/prompt"
)

type Chat struct {
	planRunner     compose.Runnable[map[string]any, *schema.Message]
	finalizeRunner compose.Runnable[map[string]any, *schema.Message]
	allowedTools   map[string]struct{}
}

var _ contractx.Oracle = (*Chat)(nil)

// New builds the oracle. The tool infos are declared to the planning model;
// tool calls outside the declared set are rejected as schema violations.
func New(ctx context.Context, cfg Config, tools []*schema.ToolInfo) (*Chat, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	systemPrompt := promptx.Assistant()

	openRouterCfg := cfg.openRouter()
	chatModel, err := openRouterCfg.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: create chat model: %v", contractx.ErrOracle, err)
	}

	toolModel, err := chatModel.WithTools(tools)
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrOracle, err)
	}

	planRunner, err := compileChatGraph(ctx, toolModel, systemPrompt, "oracle.plan_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrOracle, err)
	}
	finalizeRunner, err := compileChatGraph(ctx, chatModel, systemPrompt, "oracle.finalize_graph")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrOracle, err)
	}

	allowed := make(map[string]struct{}, len(tools))
	for _, t := range tools {
		if t == nil || strings.TrimSpace(t.Name) == "" {
			continue
		}
		allowed[t.Name] = struct{}{}
	}

	return &Chat{
		planRunner:     planRunner,
		finalizeRunner: finalizeRunner,
		allowedTools:   allowed,
	}, nil
}

func (c *Chat) Plan(ctx context.Context, req contractx.OracleRequest) (contractx.OracleResponse, error) {
	payload := map[string]any{
		"message":      req.Message,
		"lead":         req.Lead,
		"preferences":  req.Preferences,
		"community_id": req.CommunityID,
	}

	msg, err := c.invoke(ctx, c.planRunner, payload)
	if err != nil {
		return contractx.OracleResponse{}, err
	}

	toolCalls, err := c.toToolRequests(msg.ToolCalls)
	if err != nil {
		return contractx.OracleResponse{}, err
	}

	message := strings.TrimSpace(msg.Content)
	if message == "" && len(toolCalls) == 0 {
		return contractx.OracleResponse{}, fmt.Errorf("%w: plan produced neither text nor tool calls", contractx.ErrSchemaViolation)
	}

	return contractx.OracleResponse{
		Message:   message,
		ToolCalls: toolCalls,
		Usage:     usageOf(msg),
	}, nil
}

func (c *Chat) Finalize(ctx context.Context, req contractx.OracleRequest, results []contractx.ToolInvocation) (contractx.OracleResponse, error) {
	toolResults := make([]contractx.ToolResult, 0, len(results))
	for _, inv := range results {
		toolResults = append(toolResults, inv.Result)
	}

	payload := map[string]any{
		"message":      req.Message,
		"lead":         req.Lead,
		"preferences":  req.Preferences,
		"community_id": req.CommunityID,
		"tool_results": toolResults,
	}

	msg, err := c.invoke(ctx, c.finalizeRunner, payload)
	if err != nil {
		return contractx.OracleResponse{}, err
	}

	message := strings.TrimSpace(msg.Content)
	if message == "" {
		return contractx.OracleResponse{}, fmt.Errorf("%w: finalize produced an empty reply", contractx.ErrSchemaViolation)
	}

	return contractx.OracleResponse{
		Message: message,
		Usage:   usageOf(msg),
	}, nil
}

func (c *Chat) invoke(
	ctx context.Context,
	runner compose.Runnable[map[string]any, *schema.Message],
	payload map[string]any,
) (*schema.Message, error) {
	input, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("%w: marshal oracle payload: %v", contractx.ErrValidation, err)
	}

	msg, err := runner.Invoke(ctx, map[string]any{"input": string(input)})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", contractx.ErrOracle, err)
	}
	if msg == nil {
		return nil, fmt.Errorf("%w: empty oracle response", contractx.ErrSchemaViolation)
	}
	return msg, nil
}

func (c *Chat) toToolRequests(calls []schema.ToolCall) ([]contractx.ToolRequest, error) {
	if len(calls) == 0 {
		return nil, nil
	}
	reqs := make([]contractx.ToolRequest, 0, len(calls))
	for _, call := range calls {
		name := strings.TrimSpace(call.Function.Name)
		if name == "" {
			return nil, fmt.Errorf("%w: tool call name is empty", contractx.ErrSchemaViolation)
		}
		if _, ok := c.allowedTools[name]; !ok {
			return nil, fmt.Errorf("%w: tool=%s is not declared", contractx.ErrSchemaViolation, name)
		}

		args := map[string]any{}
		rawArgs := strings.TrimSpace(call.Function.Arguments)
		if rawArgs != "" {
			if err := json.Unmarshal([]byte(rawArgs), &args); err != nil {
				return nil, fmt.Errorf("%w: invalid args for tool=%s: %v", contractx.ErrSchemaViolation, name, err)
			}
		}

		reqs = append(reqs, contractx.ToolRequest{Tool: name, Args: args})
	}
	return reqs, nil
}

func usageOf(msg *schema.Message) contractx.TokenUsage {
	if msg == nil || msg.ResponseMeta == nil || msg.ResponseMeta.Usage == nil {
		return contractx.TokenUsage{}
	}
	return contractx.TokenUsage{
		PromptTokens:     msg.ResponseMeta.Usage.PromptTokens,
		CompletionTokens: msg.ResponseMeta.Usage.CompletionTokens,
	}
}
