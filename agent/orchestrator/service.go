// Package orchestrator sequences one inquiry end to end: validation, the
// oracle planning round, tool execution, the finalize round, and action
// classification. It never fails its caller; every internal failure becomes
// the fixed handoff fallback, and every invocation leaves exactly one
// request log entry.
package orchestrator

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/cloudwego/eino/compose"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	"github.com/tourwise/leasing-concierge/leasing"
)

// FallbackReply is returned whenever the pipeline cannot produce a reply.
const FallbackReply = "I'm sorry, I'm having trouble helping with that right now. " +
	"Please contact our leasing office directly and someone will assist you."

// LogAppender persists request log entries. Satisfied by *leasing.Service.
type LogAppender interface {
	AppendLog(ctx context.Context, entry *leasing.RequestLog) error
}

type Orchestrator struct {
	oracle contractx.Oracle
	tools  contractx.ToolGateway
	logs   LogAppender
	logger zerolog.Logger

	graphRunner compose.Runnable[contractx.InquiryRequest, graphOutput]

	now func() time.Time
}

func New(
	oracle contractx.Oracle,
	tools contractx.ToolGateway,
	logs LogAppender,
	logger zerolog.Logger,
) (*Orchestrator, error) {
	if oracle == nil {
		return nil, errors.New("oracle is required")
	}
	if tools == nil {
		return nil, errors.New("tool gateway is required")
	}
	if logs == nil {
		return nil, errors.New("log appender is required")
	}

	o := &Orchestrator{
		oracle: oracle,
		tools:  tools,
		logs:   logs,
		logger: logger,
		now:    time.Now,
	}

	graphRunner, err := o.compileInquiryGraph(context.Background())
	if err != nil {
		return nil, err
	}
	o.graphRunner = graphRunner

	return o, nil
}

// ProcessMessage handles one inquiry. It always returns a well-formed
// response: any validation, oracle, or storage failure outside tool
// execution yields the fixed fallback with action handoff_human.
func (o *Orchestrator) ProcessMessage(ctx context.Context, req contractx.InquiryRequest) contractx.InquiryResponse {
	correlationID := uuid.NewString()
	started := o.now()

	out, err := o.graphRunner.Invoke(ctx, req)
	latency := o.now().Sub(started)

	if err != nil {
		o.logger.Error().
			Err(err).
			Str("correlation_id", correlationID).
			Dur("latency", latency).
			Msg("inquiry failed, returning fallback")
		o.appendLog(ctx, correlationID, latency, nil, contractx.TokenUsage{}, err)

		return contractx.InquiryResponse{
			Reply:         FallbackReply,
			Action:        contractx.ActionHandoffHuman,
			CorrelationID: correlationID,
		}
	}

	o.logger.Info().
		Str("correlation_id", correlationID).
		Str("action", string(out.Classification.Action)).
		Int("tool_calls", len(out.Invocations)).
		Dur("latency", latency).
		Msg("inquiry processed")
	o.appendLog(ctx, correlationID, latency, out.Invocations, out.Usage, nil)

	return contractx.InquiryResponse{
		Reply:          out.Reply,
		Action:         out.Classification.Action,
		ProposedTime:   out.Classification.ProposedTime,
		AvailableTimes: out.Classification.AvailableTimes,
		CorrelationID:  correlationID,
	}
}

// appendLog emits the single per-invocation log entry. A log write failure
// must not break the response, so it is only logged.
func (o *Orchestrator) appendLog(
	ctx context.Context,
	correlationID string,
	latency time.Duration,
	invocations []contractx.ToolInvocation,
	usage contractx.TokenUsage,
	failure error,
) {
	entry := &leasing.RequestLog{
		CorrelationID:    correlationID,
		LatencyMS:        latency.Milliseconds(),
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		CreatedAt:        o.now().UTC(),
	}
	if failure != nil {
		entry.Error = failure.Error()
	}
	if len(invocations) > 0 {
		entry.Tool = invocations[0].Request.Tool
		entry.Args = marshalJSON(requestsOf(invocations))
		entry.Result = marshalJSON(resultsOf(invocations))
	}

	if err := o.logs.AppendLog(ctx, entry); err != nil {
		o.logger.Warn().Err(err).Str("correlation_id", correlationID).Msg("request log write failed")
	}
}

func requestsOf(invocations []contractx.ToolInvocation) []contractx.ToolRequest {
	reqs := make([]contractx.ToolRequest, 0, len(invocations))
	for _, inv := range invocations {
		reqs = append(reqs, inv.Request)
	}
	return reqs
}

func resultsOf(invocations []contractx.ToolInvocation) []contractx.ToolResult {
	results := make([]contractx.ToolResult, 0, len(invocations))
	for _, inv := range invocations {
		results = append(results, inv.Result)
	}
	return results
}

func marshalJSON(v any) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(raw)
}
