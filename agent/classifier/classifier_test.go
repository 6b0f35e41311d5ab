package classifier

import (
	"testing"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	toolx "github.com/tourwise/leasing-concierge/agent/tool"
)

func slotInvocation(times ...string) contractx.ToolInvocation {
	return contractx.ToolInvocation{
		Request: contractx.ToolRequest{Tool: toolx.ToolGetTourSlots},
		Result: contractx.ToolResult{
			Tool:   toolx.ToolGetTourSlots,
			Result: toolx.TourSlotsOutput{AvailableTimes: times},
		},
	}
}

func TestClassifyProposesTourFromSlotEvidence(t *testing.T) {
	t.Parallel()

	out := Classify("Here are some available times", []contractx.ToolInvocation{
		slotInvocation("2025-08-28T10:00:00Z", "2025-08-28T14:00:00Z"),
	})

	if out.Action != contractx.ActionProposeTour {
		t.Fatalf("expected propose_tour, got %s", out.Action)
	}
	if out.ProposedTime != "2025-08-28T10:00:00Z" {
		t.Fatalf("proposed time must be the first slot, got %s", out.ProposedTime)
	}
	if len(out.AvailableTimes) != 2 {
		t.Fatalf("expected both times, got %v", out.AvailableTimes)
	}
}

func TestClassifySlotEvidenceBeatsHandoffText(t *testing.T) {
	t.Parallel()

	// Noncommittal prose with handoff cues still proposes a tour when the
	// slot lookup returned times.
	out := Classify("I'm unable to say much, but you could contact our office.", []contractx.ToolInvocation{
		slotInvocation("2025-08-28T10:00:00Z"),
	})
	if out.Action != contractx.ActionProposeTour {
		t.Fatalf("tool evidence must win, got %s", out.Action)
	}
}

func TestClassifyEmptySlotListIsNotEvidence(t *testing.T) {
	t.Parallel()

	out := Classify("We have no tours available, please contact the office.", []contractx.ToolInvocation{
		slotInvocation(),
	})
	if out.Action != contractx.ActionHandoffHuman {
		t.Fatalf("expected handoff_human, got %s", out.Action)
	}
}

func TestClassifyClarificationPatterns(t *testing.T) {
	t.Parallel()

	replies := []string{
		"Could you tell me how many bedrooms you need?",
		"Can you tell me your move-in date?",
		"I need more information about your pet.",
		"What floor do you prefer?",
		"Which community are you interested in?",
	}
	for _, reply := range replies {
		out := Classify(reply, nil)
		if out.Action != contractx.ActionAskClarification {
			t.Fatalf("reply %q: expected ask_clarification, got %s", reply, out.Action)
		}
	}
}

func TestClassifyHandoffPatterns(t *testing.T) {
	t.Parallel()

	replies := []string{
		"Please contact our leasing office for details.",
		"You'll want to speak with an agent about that.",
		"I'm unable to help with maintenance requests.",
		"Sorry, I can't assist with that.",
	}
	for _, reply := range replies {
		out := Classify(reply, nil)
		if out.Action != contractx.ActionHandoffHuman {
			t.Fatalf("reply %q: expected handoff_human, got %s", reply, out.Action)
		}
	}
}

func TestClassifyClarificationWinsTieBreak(t *testing.T) {
	t.Parallel()

	// Matches both clarification ("could you") and handoff ("office") cues;
	// clarification is checked first.
	out := Classify("I'm not sure, could you clarify which office you meant?", nil)
	if out.Action != contractx.ActionAskClarification {
		t.Fatalf("expected ask_clarification on tie, got %s", out.Action)
	}
}

func TestClassifyDefaultsToClarification(t *testing.T) {
	t.Parallel()

	out := Classify("Our community has a pool and a gym.", nil)
	if out.Action != contractx.ActionAskClarification {
		t.Fatalf("expected default ask_clarification, got %s", out.Action)
	}
	if out.ProposedTime != "" || len(out.AvailableTimes) != 0 {
		t.Fatalf("no times expected: %+v", out)
	}
}
