// Package classifier maps the oracle's final reply text plus captured tool
// evidence onto one of the three UI actions. Tool evidence is authoritative:
// the oracle's prose can be noncommittal even when it retrieved tour slots,
// so a non-empty slot lookup always wins over text matching.
package classifier

import (
	"strings"

	contractx "github.com/tourwise/leasing-concierge/agent/contract"
	toolx "github.com/tourwise/leasing-concierge/agent/tool"
)

// Classification is the classifier's verdict for one inquiry.
type Classification struct {
	Action         contractx.Action
	ProposedTime   string
	AvailableTimes []string
}

// Classify applies the decision order: tour-slot evidence, clarification
// cues, handoff cues, then the clarification default. First match wins; the
// ordering is a deliberate tie-break for replies matching several cues.
func Classify(reply string, invocations []contractx.ToolInvocation) Classification {
	if times := tourSlotEvidence(invocations); len(times) > 0 {
		return Classification{
			Action:         contractx.ActionProposeTour,
			ProposedTime:   times[0],
			AvailableTimes: times,
		}
	}

	text := strings.ToLower(reply)

	if seeksClarification(text) {
		return Classification{Action: contractx.ActionAskClarification}
	}
	if needsHandoff(text) {
		return Classification{Action: contractx.ActionHandoffHuman}
	}

	// Ambiguous text defaults to clarification: never silently hand off or
	// promise a tour without evidence.
	return Classification{Action: contractx.ActionAskClarification}
}

func tourSlotEvidence(invocations []contractx.ToolInvocation) []string {
	for _, inv := range invocations {
		if inv.Request.Tool != toolx.ToolGetTourSlots || inv.Result.Error != "" {
			continue
		}
		if out, ok := inv.Result.Result.(toolx.TourSlotsOutput); ok && len(out.AvailableTimes) > 0 {
			return out.AvailableTimes
		}
	}
	return nil
}

func seeksClarification(text string) bool {
	if strings.Contains(text, "could you") ||
		strings.Contains(text, "can you tell me") ||
		strings.Contains(text, "more information") {
		return true
	}
	if strings.Contains(text, "?") &&
		(strings.Contains(text, "what") || strings.Contains(text, "which")) {
		return true
	}
	return false
}

func needsHandoff(text string) bool {
	if strings.Contains(text, "contact") && strings.Contains(text, "office") {
		return true
	}
	if strings.Contains(text, "speak") && strings.Contains(text, "agent") {
		return true
	}
	if strings.Contains(text, "unable") {
		return true
	}
	if strings.Contains(text, "sorry") && strings.Contains(text, "can't") {
		return true
	}
	return false
}
