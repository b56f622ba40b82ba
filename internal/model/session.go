package model

import "time"

// SessionStep identifies where a conversation session is in its flow.
// The agent branches on these constants only; it never infers state
// from message text.
type SessionStep string

const (
	StepWelcome             SessionStep = "welcome"
	StepProcessingQuery     SessionStep = "processing_query"
	StepPresentingResults   SessionStep = "presenting_results"
	StepGatheringFeedback   SessionStep = "gathering_feedback"
	StepAskingResume        SessionStep = "asking_resume"
	StepNewUserQuestion     SessionStep = "new_user_question"
	StepNewUserConfirm      SessionStep = "new_user_confirm"
	StepSimplifiedInterests SessionStep = "simplified_interests"
	StepComplete            SessionStep = "complete"
)

// InLoop reports whether the step is part of the scripted
// information-seeking feedback loop. While a session is in the loop the
// agent continues the script without re-classifying intent.
func (s SessionStep) InLoop() bool {
	switch s {
	case StepPresentingResults, StepGatheringFeedback, StepAskingResume:
		return true
	}
	return false
}

// Role values for transcript messages.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one turn in a session transcript.
type Message struct {
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	Timestamp time.Time `json:"timestamp"`
}

// SessionContext is the full state of one conversation session. It is
// persisted to the session store on every turn so any process can
// continue the conversation.
type SessionContext struct {
	SessionID     string         `json:"sessionId"`
	UserID        string         `json:"userId"`
	CreatedAt     time.Time      `json:"createdAt"`
	LastActivity  time.Time      `json:"lastActivity"`
	CurrentStep   SessionStep    `json:"currentStep"`
	FlowType      string         `json:"flowType,omitempty"`
	ProfileType   ProfileType    `json:"profileType,omitempty"`
	Transcript    []Message      `json:"transcript"`
	CollectedData map[string]any `json:"collectedData,omitempty"`
}

// Append adds a message to the transcript.
func (s *SessionContext) Append(role, content string) {
	s.Transcript = append(s.Transcript, Message{
		Role:      role,
		Content:   content,
		Timestamp: time.Now().UTC(),
	})
}

// AgentResponse is the agent's reply for one turn.
type AgentResponse struct {
	SessionID         string             `json:"sessionId"`
	Message           string             `json:"message"`
	NextAction        string             `json:"nextAction,omitempty"`
	RequiresUserInput bool               `json:"requiresUserInput"`
	Timestamp         time.Time          `json:"timestamp"`
	Dashboard         *DashboardData     `json:"dashboard,omitempty"`
	Articles          []KnowledgeArticle `json:"articles,omitempty"`
	UIComponents      []UIComponent      `json:"uiComponents,omitempty"`
}

// UIComponent is a hint to the chat widget about how to render part of
// the response (quick replies, amount buttons, article cards).
type UIComponent struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data,omitempty"`
}

// NextAction values returned by the agent.
const (
	ActionValidateInformation = "validate_information"
	ActionCollectFeedback     = "collect_feedback"
	ActionAskResume           = "ask_resume_personalization"
	ActionComplete            = "action_complete"
	ActionClarification       = "clarification"
	ActionShowDashboard       = "show_dashboard"
	ActionContinueFlow        = "continue_flow"
)
