package model

// Intent categories produced by the classifier.
const (
	IntentPersonalization    = "personalization"
	IntentInformationSeeking = "information_seeking"
	IntentAction             = "action"
	IntentUnclear            = "unclear"
)

// Conversation flows the agent can route a turn into.
const (
	FlowPersonalization = "personalization_flow"
	FlowInformation     = "information_seeking_flow"
	FlowAction          = "action_flow"
	FlowClarification   = "clarification"
)

// SuggestedFlowFor maps an intent to its flow. The mapping is fixed:
// whatever flow a model suggests is discarded in favour of this one.
func SuggestedFlowFor(intent string) string {
	switch intent {
	case IntentPersonalization:
		return FlowPersonalization
	case IntentInformationSeeking:
		return FlowInformation
	case IntentAction:
		return FlowAction
	default:
		return FlowClarification
	}
}

// ValidIntent reports whether s is one of the four known categories.
func ValidIntent(s string) bool {
	switch s {
	case IntentPersonalization, IntentInformationSeeking, IntentAction, IntentUnclear:
		return true
	}
	return false
}

// IntentResult is the classifier's verdict for one utterance.
type IntentResult struct {
	Intent        string   `json:"intent"`
	Confidence    float64  `json:"confidence"`
	Entities      []Entity `json:"entities,omitempty"`
	SuggestedFlow string   `json:"suggestedFlow"`
}

// Entity is a typed span extracted from the utterance.
type Entity struct {
	Type       string  `json:"type"`
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
}
