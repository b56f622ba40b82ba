// Package intent classifies supporter utterances into one of four
// conversational intents using an LLM, with a deterministic fallback
// when the model is unavailable or returns garbage.
package intent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/llm"
	"github.com/crukhq/supporter-engagement/internal/model"
)

const classifierSystemPrompt = `You classify messages from charity supporters into exactly one intent category.

Categories:
- "personalization": the supporter wants a personalized experience, their dashboard, their donation impact, or a tailored summary. Examples: "show me my impact", "personalize my experience", "what difference have my donations made".
- "information_seeking": the supporter is asking for information about cancer, treatments, research, screening, or support services. Examples: "what is breast cancer", "tell me about your research".
- "action": the supporter wants to do something: donate, start fundraising, volunteer, or sign up for an event. Examples: "I want to donate", "how do I set up a fundraising page".
- "unclear": the message is ambiguous, empty of intent, or off-topic.

Also extract entities where present. Entity types: "cancer_type", "amount", "event", "location", "topic".

Guidelines:
- Choose exactly one intent.
- Confidence is a number between 0 and 1.
- Only include entities you are confident about.

Respond with JSON only:
{"intent": "...", "confidence": 0.0, "entities": [{"type": "...", "value": "...", "confidence": 0.0}]}`

// Classifier detects intent via an LLM provider.
type Classifier struct {
	provider llm.Provider
	model    string
	log      zerolog.Logger
}

// New creates an intent classifier.
func New(provider llm.Provider, modelName string, log zerolog.Logger) *Classifier {
	return &Classifier{
		provider: provider,
		model:    modelName,
		log:      log.With().Str("component", "intent").Logger(),
	}
}

// classifierResult is the wire shape the model is asked to produce.
type classifierResult struct {
	Intent     string         `json:"intent"`
	Confidence float64        `json:"confidence"`
	Entities   []model.Entity `json:"entities"`
}

// Detect classifies the input. It never returns an error: any provider
// failure or unparseable response degrades to the unclear intent so the
// conversation can continue with a clarifying question.
func (c *Classifier) Detect(ctx context.Context, input string, uc *model.UserContext) model.IntentResult {
	fallback := model.IntentResult{
		Intent:        model.IntentUnclear,
		Confidence:    0,
		SuggestedFlow: model.FlowClarification,
	}

	if strings.TrimSpace(input) == "" {
		return fallback
	}

	resp, err := c.provider.Complete(ctx, llm.CompletionRequest{
		Model: c.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: classifierSystemPrompt},
			{Role: llm.RoleUser, Content: buildUserPrompt(input, uc)},
		},
		Temperature: 0.1,
		MaxTokens:   512,
		JSONMode:    true,
	})
	if err != nil {
		c.log.Warn().Err(err).Msg("intent classification failed, falling back to unclear")
		return fallback
	}

	raw := llm.ExtractJSON(resp.Content)
	if raw == "" {
		c.log.Warn().Str("content", resp.Content).Msg("no JSON in classifier response")
		return fallback
	}

	var parsed classifierResult
	if err := json.Unmarshal([]byte(raw), &parsed); err != nil {
		c.log.Warn().Err(err).Msg("unparseable classifier response")
		return fallback
	}

	return Normalize(parsed.Intent, parsed.Confidence, parsed.Entities)
}

// Normalize maps a raw classification onto the supported result space:
// unknown intents become unclear, confidences are clamped to [0,1],
// entities missing a type or value are dropped, and the suggested flow
// is always derived from the fixed intent mapping.
func Normalize(rawIntent string, confidence float64, entities []model.Entity) model.IntentResult {
	intentName := strings.ToLower(strings.TrimSpace(rawIntent))
	if !model.ValidIntent(intentName) {
		intentName = model.IntentUnclear
	}

	result := model.IntentResult{
		Intent:        intentName,
		Confidence:    clamp01(confidence),
		SuggestedFlow: model.SuggestedFlowFor(intentName),
	}

	for _, e := range entities {
		if e.Type == "" || e.Value == "" {
			continue
		}
		e.Confidence = clamp01(e.Confidence)
		result.Entities = append(result.Entities, e)
	}

	return result
}

// buildUserPrompt adds a compact context summary so the model can
// disambiguate messages like "show me more".
func buildUserPrompt(input string, uc *model.UserContext) string {
	var sb strings.Builder
	if uc != nil {
		if len(uc.Preferences.Interests) > 0 {
			fmt.Fprintf(&sb, "Supporter interests: %s\n", strings.Join(uc.Preferences.Interests, ", "))
		}
		if uc.Profile != nil && uc.Profile.DonationCount > 0 {
			fmt.Fprintf(&sb, "Supporter has made %d donations totalling £%.2f\n",
				uc.Profile.DonationCount, uc.Profile.TotalDonations)
		}
	}
	fmt.Fprintf(&sb, "Message: %s", input)
	return sb.String()
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
