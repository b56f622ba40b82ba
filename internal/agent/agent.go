// Package agent runs the multi-turn personalization conversation. All
// session state lives in the session store, so any process can serve
// any turn. Flow position is tracked with explicit step constants; the
// agent never infers where a conversation is from message text.
package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/content"
	"github.com/crukhq/supporter-engagement/internal/contextmgr"
	"github.com/crukhq/supporter-engagement/internal/intent"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/profile"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// Agent orchestrates sessions, intent routing, and content generation.
type Agent struct {
	store      *store.Store
	contexts   *contextmgr.Manager
	classifier *intent.Classifier
	content    *content.Generator
	sessionTTL time.Duration
	log        zerolog.Logger
}

// New creates an agent.
func New(s *store.Store, cm *contextmgr.Manager, cl *intent.Classifier, gen *content.Generator, sessionTTL time.Duration, log zerolog.Logger) *Agent {
	return &Agent{
		store:      s,
		contexts:   cm,
		classifier: cl,
		content:    gen,
		sessionTTL: sessionTTL,
		log:        log.With().Str("component", "agent").Logger(),
	}
}

// InitializeSession starts a conversation: it classifies the supporter,
// creates a session, and returns a profile-aware welcome. When the user
// context carries a resumable flow the welcome offers to pick it up.
func (a *Agent) InitializeSession(ctx context.Context, userID string) (*model.AgentResponse, error) {
	p, err := a.store.GetProfile(ctx, userID)
	if err != nil && !errors.Is(err, model.ErrNotFound) {
		return nil, fmt.Errorf("loading profile: %w", err)
	}

	donations, err := a.store.ListDonations(ctx, userID, 50)
	if err != nil {
		return nil, fmt.Errorf("loading donations: %w", err)
	}

	profileType := profile.DetermineProfileType(p, donations)

	uc, err := a.contexts.EnsureContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ensuring context: %w", err)
	}

	now := time.Now().UTC()
	sess := &model.SessionContext{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		CurrentStep:  model.StepWelcome,
		ProfileType:  profileType,
	}

	message := welcomeMessage(p, profileType)
	if uc.CurrentFlow != nil && uc.CurrentFlow.CanResume {
		message += " Last time we were in the middle of something — just say the word and we'll pick up where we left off."
	}
	sess.Append(model.RoleAssistant, message)

	if err := a.store.PutSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.recordInteraction(ctx, userID, "session_start", map[string]any{
		"sessionId":   sess.SessionID,
		"profileType": string(profileType),
	})

	return &model.AgentResponse{
		SessionID:         sess.SessionID,
		Message:           message,
		NextAction:        model.ActionContinueFlow,
		RequiresUserInput: true,
		Timestamp:         now,
	}, nil
}

// ProcessInput handles one conversation turn. The session is persisted
// before the response is returned, so a crash between turns never loses
// accepted input.
func (a *Agent) ProcessInput(ctx context.Context, userID, input, sessionID string) (*model.AgentResponse, error) {
	sess, err := a.loadOrCreateSession(ctx, userID, sessionID)
	if err != nil {
		return nil, err
	}
	sess.Append(model.RoleUser, input)

	uc, err := a.contexts.EnsureContext(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("loading user context: %w", err)
	}

	var resp *model.AgentResponse
	switch {
	case sess.CurrentStep.InLoop():
		// Mid information-seeking loop: the script continues on any
		// reply; no intent classification can preempt it.
		resp = a.continueInformationLoop(ctx, sess, uc, input)
	case sess.CurrentStep == model.StepNewUserQuestion:
		resp = a.handleNewUserAnswer(ctx, sess, input)
	case sess.CurrentStep == model.StepNewUserConfirm:
		resp = a.handleNewUserConfirm(ctx, sess, uc, input)
	case sess.CurrentStep == model.StepSimplifiedInterests:
		resp = a.handleSimplifiedInterests(ctx, sess, uc, input)
	case sess.CurrentStep == model.StepWelcome && uc.CurrentFlow != nil && uc.CurrentFlow.CanResume && affirmative(input):
		resp = a.resumeFlow(ctx, sess, uc)
	default:
		result := a.classifier.Detect(ctx, input, uc)
		resp = a.routeIntent(ctx, sess, uc, input, result)
	}

	sess.Append(model.RoleAssistant, resp.Message)
	sess.LastActivity = time.Now().UTC()
	if err := a.store.PutSession(ctx, sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	a.recordInteraction(ctx, userID, "agent_turn", map[string]any{
		"sessionId": sess.SessionID,
		"step":      string(sess.CurrentStep),
	})

	resp.SessionID = sess.SessionID
	resp.RequiresUserInput = resp.NextAction != model.ActionComplete
	resp.Timestamp = sess.LastActivity
	return resp, nil
}

// EndSession closes a conversation. An unfinished flow is written into
// the user context as resumable before the session is deleted.
func (a *Agent) EndSession(ctx context.Context, userID, sessionID string) error {
	sess, err := a.store.GetSession(ctx, sessionID, a.sessionTTL)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) || errors.Is(err, model.ErrSessionExpired) {
			return nil
		}
		return fmt.Errorf("loading session: %w", err)
	}

	if sess.CurrentStep != model.StepComplete && sess.CurrentStep != model.StepWelcome {
		_, err := a.contexts.UpdateFlowState(ctx, userID, &model.FlowState{
			FlowType:      sess.FlowType,
			CurrentStep:   string(sess.CurrentStep),
			CollectedData: sess.CollectedData,
			CanResume:     true,
		})
		if err != nil {
			return fmt.Errorf("persisting flow state: %w", err)
		}
	}

	if err := a.store.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("deleting session: %w", err)
	}
	return nil
}

// loadOrCreateSession fetches the session, or starts a fresh one when
// the ID is unknown or the session has idled out.
func (a *Agent) loadOrCreateSession(ctx context.Context, userID, sessionID string) (*model.SessionContext, error) {
	if sessionID != "" {
		sess, err := a.store.GetSession(ctx, sessionID, a.sessionTTL)
		if err == nil {
			return sess, nil
		}
		if !errors.Is(err, model.ErrNotFound) && !errors.Is(err, model.ErrSessionExpired) {
			return nil, fmt.Errorf("loading session: %w", err)
		}
	}

	now := time.Now().UTC()
	return &model.SessionContext{
		SessionID:    uuid.New().String(),
		UserID:       userID,
		CreatedAt:    now,
		LastActivity: now,
		CurrentStep:  model.StepWelcome,
	}, nil
}

// recordInteraction logs an engagement record. Recording is best-effort:
// a store failure is logged and swallowed.
func (a *Agent) recordInteraction(ctx context.Context, userID, kind string, details map[string]any) {
	if err := a.store.RecordEngagement(ctx, userID, model.EngagementRecord{
		Type:    kind,
		Details: details,
	}); err != nil {
		a.log.Warn().Err(err).Str("user", userID).Str("type", kind).Msg("recording interaction")
	}
}

func welcomeMessage(p *model.UserProfile, profileType model.ProfileType) string {
	name := p.DisplayName()
	switch profileType {
	case model.ProfileReturningUser:
		return fmt.Sprintf("Welcome back, %s! Would you like to see the impact of your support, find information, or get involved?", name)
	case model.ProfileBasicInfo:
		return fmt.Sprintf("Hello, %s! Tell me what you're interested in and I'll tailor things for you.", name)
	default:
		return fmt.Sprintf("Hello, %s! I can help you explore cancer information, see how donations make a difference, or find ways to get involved. What brings you here today?", name)
	}
}
