package contract

import "context"

// Oracle is the external natural-language reasoning service, consumed as a
// black box. Plan may return tool calls; Finalize produces the user-facing
// text after tool results are available.
type Oracle interface {
	Plan(ctx context.Context, req OracleRequest) (OracleResponse, error)
	Finalize(ctx context.Context, req OracleRequest, results []ToolInvocation) (OracleResponse, error)
}

// ToolGateway executes oracle-requested domain operations sequentially, in
// request order, capturing each call's arguments and result.
type ToolGateway interface {
	Execute(ctx context.Context, reqs []ToolRequest) []ToolInvocation
}
