package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/profile"
)

// routeIntent dispatches a freshly classified turn into its flow.
func (a *Agent) routeIntent(ctx context.Context, sess *model.SessionContext, uc *model.UserContext, input string, result model.IntentResult) *model.AgentResponse {
	switch result.Intent {
	case model.IntentPersonalization:
		return a.startPersonalization(ctx, sess, uc)
	case model.IntentInformationSeeking:
		return a.startInformationSearch(ctx, sess, uc, input)
	case model.IntentAction:
		return a.handleAction(ctx, sess, uc)
	default:
		return a.clarify(sess)
	}
}

// startPersonalization branches on the supporter's profile type: a
// returning supporter gets their dashboard, a basic-info supporter the
// simplified flow, and a new supporter the onboarding questions.
func (a *Agent) startPersonalization(ctx context.Context, sess *model.SessionContext, uc *model.UserContext) *model.AgentResponse {
	donations, err := a.store.ListDonations(ctx, sess.UserID, 50)
	if err != nil {
		a.log.Warn().Err(err).Str("user", sess.UserID).Msg("loading donations for personalization")
	}

	var p *model.UserProfile
	if uc != nil {
		p = uc.Profile
	}
	profileType := profile.DetermineProfileType(p, donations)
	sess.ProfileType = profileType
	sess.FlowType = model.FlowPersonalization

	switch profileType {
	case model.ProfileReturningUser:
		dashboard := a.buildDashboard(ctx, sess.UserID, uc, donations)
		sess.CurrentStep = model.StepComplete
		return &model.AgentResponse{
			Message:    dashboard.WelcomeMessage,
			NextAction: model.ActionShowDashboard,
			Dashboard:  dashboard,
		}

	case model.ProfileBasicInfo:
		sess.CurrentStep = model.StepSimplifiedInterests
		return &model.AgentResponse{
			Message:    "I'd love to tailor things for you. Which areas matter most to you — for example a cancer type, research, screening, or supporting patients?",
			NextAction: model.ActionContinueFlow,
		}

	default:
		sess.CurrentStep = model.StepNewUserQuestion
		return &model.AgentResponse{
			Message:    "Welcome! To personalize your experience, tell me a little about what brings you here — a cause close to your heart, or something you'd like to learn about.",
			NextAction: model.ActionContinueFlow,
		}
	}
}

// startInformationSearch answers an information-seeking turn and enters
// the scripted feedback loop.
func (a *Agent) startInformationSearch(ctx context.Context, sess *model.SessionContext, uc *model.UserContext, query string) *model.AgentResponse {
	sess.FlowType = model.FlowInformation

	articles, err := a.store.SearchArticles(ctx, model.SearchQuery{Query: query, Limit: 5})
	if err != nil {
		a.log.Warn().Err(err).Str("query", query).Msg("knowledge search failed")
	}

	a.recordInteraction(ctx, sess.UserID, "search", map[string]any{
		"query":   query,
		"results": len(articles),
	})

	var message string
	if len(articles) == 0 {
		message = "I couldn't find anything in our knowledge base for that. Could you try different words? And once you're done — do you have everything you need?"
	} else {
		var sb strings.Builder
		fmt.Fprintf(&sb, "Here's what I found (%d result(s)):\n", len(articles))
		for i, art := range articles {
			fmt.Fprintf(&sb, "%d. %s", i+1, art.Title)
			if art.Summary != "" {
				fmt.Fprintf(&sb, " — %s", art.Summary)
			}
			sb.WriteString("\n")
		}
		sb.WriteString("\nDo you have everything you need, or shall I dig deeper?")
		message = sb.String()
	}

	sess.CurrentStep = model.StepPresentingResults
	return &model.AgentResponse{
		Message:    message,
		NextAction: model.ActionValidateInformation,
		Articles:   articles,
		UIComponents: []model.UIComponent{
			{Type: "article_list", Data: map[string]any{"count": len(articles)}},
		},
	}
}

// continueInformationLoop advances the scripted feedback loop. Any
// non-empty reply moves it forward one step; only the answer to the
// resume offer is actually interpreted.
func (a *Agent) continueInformationLoop(ctx context.Context, sess *model.SessionContext, uc *model.UserContext, input string) *model.AgentResponse {
	if strings.TrimSpace(input) == "" {
		return &model.AgentResponse{
			Message:    "Sorry, I didn't catch that — could you say it again?",
			NextAction: loopAction(sess.CurrentStep),
		}
	}

	switch sess.CurrentStep {
	case model.StepPresentingResults:
		sess.CurrentStep = model.StepGatheringFeedback
		return &model.AgentResponse{
			Message:    "Thanks! How useful was that information for you? Your feedback helps us improve what we show supporters.",
			NextAction: model.ActionCollectFeedback,
		}

	case model.StepGatheringFeedback:
		a.recordInteraction(ctx, sess.UserID, "feedback", map[string]any{"text": input})
		sess.CurrentStep = model.StepAskingResume
		return &model.AgentResponse{
			Message:    "That's really helpful, thank you. Would you like to go back to personalizing your experience?",
			NextAction: model.ActionAskResume,
		}

	case model.StepAskingResume:
		if affirmative(input) {
			sess.CurrentStep = model.StepWelcome
			sess.FlowType = ""
			return a.startPersonalization(ctx, sess, uc)
		}
		sess.CurrentStep = model.StepComplete
		sess.FlowType = ""
		return &model.AgentResponse{
			Message:    "No problem at all. I'm here whenever you need me — thank you for supporting us!",
			NextAction: model.ActionComplete,
		}
	}

	// Unreachable while InLoop() and this switch agree on the loop steps.
	sess.CurrentStep = model.StepComplete
	return &model.AgentResponse{Message: "Let's start over — what can I help you with?", NextAction: model.ActionClarification}
}

func loopAction(step model.SessionStep) string {
	switch step {
	case model.StepPresentingResults:
		return model.ActionValidateInformation
	case model.StepGatheringFeedback:
		return model.ActionCollectFeedback
	default:
		return model.ActionAskResume
	}
}

// resumeFlow restores a conversation the supporter left unfinished. The
// saved step and collected data move back onto the session, and the
// stored flow marker is cleared so the offer is only made once.
func (a *Agent) resumeFlow(ctx context.Context, sess *model.SessionContext, uc *model.UserContext) *model.AgentResponse {
	flow := uc.CurrentFlow
	if _, err := a.contexts.ClearFlowState(ctx, sess.UserID); err != nil {
		a.log.Warn().Err(err).Str("user", sess.UserID).Msg("clearing resumed flow state")
	}

	sess.FlowType = flow.FlowType
	sess.CollectedData = flow.CollectedData
	sess.CurrentStep = model.SessionStep(flow.CurrentStep)

	switch sess.CurrentStep {
	case model.StepPresentingResults:
		return &model.AgentResponse{
			Message:    "Welcome back to your search. Did you find everything you needed last time?",
			NextAction: model.ActionValidateInformation,
		}
	case model.StepGatheringFeedback:
		return &model.AgentResponse{
			Message:    "Picking up where we left off: how useful was the information we found for you?",
			NextAction: model.ActionCollectFeedback,
		}
	case model.StepAskingResume:
		return &model.AgentResponse{
			Message:    "Right where we left off. Would you like to go back to personalizing your experience?",
			NextAction: model.ActionAskResume,
		}
	case model.StepNewUserQuestion, model.StepNewUserConfirm:
		sess.CurrentStep = model.StepNewUserQuestion
		return &model.AgentResponse{
			Message:    "Let's pick up your introduction. Tell me a little about what brings you here.",
			NextAction: model.ActionContinueFlow,
		}
	case model.StepSimplifiedInterests:
		return &model.AgentResponse{
			Message:    "Let's carry on. Which areas matter most to you?",
			NextAction: model.ActionContinueFlow,
		}
	default:
		return a.startPersonalization(ctx, sess, uc)
	}
}

// handleAction answers an action intent with a call to action.
func (a *Agent) handleAction(ctx context.Context, sess *model.SessionContext, uc *model.UserContext) *model.AgentResponse {
	sess.FlowType = model.FlowAction
	sess.CurrentStep = model.StepComplete

	cta := a.content.CallToAction(ctx, uc)
	message := fmt.Sprintf("%s %s", cta.Title, cta.Description)

	components := []model.UIComponent{{Type: "call_to_action", Data: map[string]any{"ctaType": cta.Type}}}
	if len(cta.SuggestedAmounts) > 0 {
		components = append(components, model.UIComponent{
			Type: "amount_buttons",
			Data: map[string]any{"amounts": cta.SuggestedAmounts},
		})
	}

	return &model.AgentResponse{
		Message:      message,
		NextAction:   model.ActionComplete,
		UIComponents: components,
	}
}

func (a *Agent) clarify(sess *model.SessionContext) *model.AgentResponse {
	sess.CurrentStep = model.StepWelcome
	return &model.AgentResponse{
		Message:    "I'm not quite sure what you're after. I can show your impact, search cancer information, or help you donate or fundraise — which would you like?",
		NextAction: model.ActionClarification,
	}
}

// handleNewUserAnswer plays the supporter's first answer back to them.
func (a *Agent) handleNewUserAnswer(ctx context.Context, sess *model.SessionContext, input string) *model.AgentResponse {
	summary := a.content.SummarizeInput(ctx, input)
	if sess.CollectedData == nil {
		sess.CollectedData = map[string]any{}
	}
	sess.CollectedData["about"] = input
	sess.CollectedData["summary"] = summary

	sess.CurrentStep = model.StepNewUserConfirm
	return &model.AgentResponse{
		Message:    fmt.Sprintf("So, %s — did I get that right?", summary),
		NextAction: model.ActionContinueFlow,
	}
}

// handleNewUserConfirm persists the onboarding answer on confirmation.
func (a *Agent) handleNewUserConfirm(ctx context.Context, sess *model.SessionContext, uc *model.UserContext, input string) *model.AgentResponse {
	if !affirmative(input) {
		sess.CurrentStep = model.StepNewUserQuestion
		return &model.AgentResponse{
			Message:    "No worries — tell me again in your own words what brings you here.",
			NextAction: model.ActionContinueFlow,
		}
	}

	interests := parseInterests(fmt.Sprint(sess.CollectedData["about"]))
	_, err := a.contexts.MergeContext(ctx, sess.UserID, model.ContextUpdate{
		EngagementHistory: []model.EngagementRecord{{
			Type:    "onboarding",
			Details: map[string]any{"about": sess.CollectedData["about"]},
		}},
		Preferences: &model.UserPreferences{Interests: interests},
	})
	if err != nil {
		a.log.Warn().Err(err).Str("user", sess.UserID).Msg("persisting onboarding answers")
	}

	sess.CurrentStep = model.StepComplete
	mc := a.content.MotivationalContent(ctx, uc)
	return &model.AgentResponse{
		Message:    fmt.Sprintf("Wonderful, thank you for sharing. %s", mc.Message),
		NextAction: model.ActionComplete,
	}
}

// handleSimplifiedInterests captures interests from a basic-info
// supporter and responds with encouragement plus a next step.
func (a *Agent) handleSimplifiedInterests(ctx context.Context, sess *model.SessionContext, uc *model.UserContext, input string) *model.AgentResponse {
	interests := parseInterests(input)
	merged, err := a.contexts.MergeContext(ctx, sess.UserID, model.ContextUpdate{
		Preferences: &model.UserPreferences{Interests: interests},
	})
	if err != nil {
		a.log.Warn().Err(err).Str("user", sess.UserID).Msg("persisting interests")
		merged = uc
	}

	sess.CurrentStep = model.StepComplete
	mc := a.content.MotivationalContent(ctx, merged)
	cta := a.content.CallToAction(ctx, merged)

	return &model.AgentResponse{
		Message:    fmt.Sprintf("Got it — I'll keep %s in mind. %s", strings.Join(interests, ", "), mc.Message),
		NextAction: model.ActionComplete,
		UIComponents: []model.UIComponent{
			{Type: "call_to_action", Data: map[string]any{"ctaType": cta.Type, "title": cta.Title}},
		},
	}
}

// affirmative interprets the answer to a yes/no offer. Only the resume
// and confirmation prompts use it; the feedback loop itself never
// inspects reply text.
func affirmative(input string) bool {
	switch strings.ToLower(strings.TrimSpace(strings.TrimRight(input, ".!?"))) {
	case "yes", "y", "yeah", "yep", "sure", "ok", "okay", "please", "yes please", "go on", "definitely", "absolutely":
		return true
	}
	return false
}

// parseInterests splits free text on commas and "and".
func parseInterests(input string) []string {
	input = strings.ReplaceAll(strings.ToLower(input), " and ", ",")
	parts := strings.Split(input, ",")
	var out []string
	for _, p := range parts {
		p = strings.TrimSpace(strings.TrimRight(p, ".!?"))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}
