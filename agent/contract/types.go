package contract

// Action is the discrete UI directive attached to every inquiry response.
type Action string

const (
	ActionProposeTour      Action = "propose_tour"
	ActionAskClarification Action = "ask_clarification"
	ActionHandoffHuman     Action = "handoff_human"
)

// Lead identifies the prospective tenant behind an inquiry.
type Lead struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone,omitempty"`
}

// Preferences are structured hints accompanying the free-text message.
type Preferences struct {
	Bedrooms *int   `json:"bedrooms,omitempty"`
	MoveIn   string `json:"move_in,omitempty"`
}

// InquiryRequest is one inbound tenant inquiry. The system is stateless per
// request; no conversation memory is carried across inquiries.
type InquiryRequest struct {
	Lead        Lead        `json:"lead"`
	Message     string      `json:"message"`
	Preferences Preferences `json:"preferences"`
	CommunityID string      `json:"community_id"`
}

// InquiryResponse is the reply plus UI action for one inquiry.
// ProposedTime and AvailableTimes are RFC 3339 timestamps, present only for
// propose_tour.
type InquiryResponse struct {
	Reply          string   `json:"reply"`
	Action         Action   `json:"action"`
	ProposedTime   string   `json:"proposed_time,omitempty"`
	AvailableTimes []string `json:"available_times,omitempty"`
	CorrelationID  string   `json:"correlation_id"`
}

// ToolRequest is one domain-operation invocation requested by the oracle.
type ToolRequest struct {
	Tool string         `json:"tool"`
	Args map[string]any `json:"args,omitempty"`
}

// ToolResult is the serialized outcome of executing one tool request.
type ToolResult struct {
	Tool   string `json:"tool"`
	Result any    `json:"result,omitempty"`
	Error  string `json:"error,omitempty"`
}

// ToolInvocation pairs a request with its captured result, in execution
// order. The classifier inspects these as evidence.
type ToolInvocation struct {
	Request ToolRequest `json:"request"`
	Result  ToolResult  `json:"result"`
}

// TokenUsage is reported per oracle round trip for request logging.
type TokenUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
}

// OracleRequest is the conversation input handed to the oracle.
type OracleRequest struct {
	Message     string      `json:"message"`
	Lead        Lead        `json:"lead"`
	Preferences Preferences `json:"preferences"`
	CommunityID string      `json:"community_id"`
}

// OracleResponse is free text plus zero or more requested tool invocations.
type OracleResponse struct {
	Message   string        `json:"message"`
	ToolCalls []ToolRequest `json:"tool_calls,omitempty"`
	Usage     TokenUsage    `json:"usage"`
}
