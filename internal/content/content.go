// Package content generates supporter-facing content: motivational
// messages, calls to action, donation impact breakdowns, and research
// highlights. LLM-backed pieces always carry a deterministic fallback
// so a provider outage never blanks the experience.
package content

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/rs/zerolog"

	"github.com/crukhq/supporter-engagement/internal/config"
	"github.com/crukhq/supporter-engagement/internal/llm"
	"github.com/crukhq/supporter-engagement/internal/model"
	"github.com/crukhq/supporter-engagement/internal/store"
)

// Generator produces personalized content.
type Generator struct {
	provider llm.Provider
	model    string
	store    *store.Store
	tiers    []config.ImpactTier
	log      zerolog.Logger
}

// New creates a content generator. Impact tiers come from configuration.
func New(provider llm.Provider, modelName string, s *store.Store, tiers []config.ImpactTier, log zerolog.Logger) *Generator {
	return &Generator{
		provider: provider,
		model:    modelName,
		store:    s,
		tiers:    tiers,
		log:      log.With().Str("component", "content").Logger(),
	}
}

// ImpactBreakdown converts a donation history into tangible outcomes.
// Each configured tier whose threshold the total reaches contributes an
// item; when the total is positive but below every threshold a single
// generic item is returned. Empty input yields an empty slice.
func (g *Generator) ImpactBreakdown(donations []model.Donation) []model.ImpactItem {
	items := []model.ImpactItem{}
	if len(donations) == 0 {
		return items
	}

	var total float64
	for _, d := range donations {
		total += d.Amount
	}
	if total <= 0 {
		return items
	}

	for _, tier := range g.tiers {
		if total < tier.Threshold {
			continue
		}
		quantity := int(math.Floor(total * tier.PerPound))
		if quantity <= 0 {
			continue
		}
		items = append(items, model.ImpactItem{
			Quantity:    quantity,
			Description: tier.Description,
			Icon:        tier.Icon,
		})
	}

	if len(items) == 0 {
		items = append(items, model.ImpactItem{
			Quantity:    1,
			Description: "contribution to cancer research",
			Icon:        "❤️",
		})
	}
	return items
}

// MotivationalContent asks the model for an encouragement message
// tailored to the supporter, falling back to a template on any failure.
func (g *Generator) MotivationalContent(ctx context.Context, uc *model.UserContext) model.MotivationalContent {
	name := "Supporter"
	var total float64
	var count int
	if uc != nil && uc.Profile != nil {
		name = uc.Profile.DisplayName()
		total = uc.Profile.TotalDonations
		count = uc.Profile.DonationCount
	}

	fallback := fallbackMotivation(name, total, count)

	prompt := fmt.Sprintf(`Write a short motivational message for a cancer charity supporter.
Supporter name: %s
Total donated: £%.2f over %d donations
Interests: %s

Respond with JSON only:
{"headline": "...", "message": "...", "impactStatement": "..."}
Keep the headline under 8 words and the message under 40 words. Warm, never guilt-tripping.`,
		name, total, count, strings.Join(interestsOf(uc), ", "))

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: 0.7,
		MaxTokens:   256,
		JSONMode:    true,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("motivational content generation failed, using fallback")
		return fallback
	}

	var mc model.MotivationalContent
	raw := llm.ExtractJSON(resp.Content)
	if raw == "" || json.Unmarshal([]byte(raw), &mc) != nil || mc.Message == "" {
		g.log.Warn().Msg("unparseable motivational content, using fallback")
		return fallback
	}
	return mc
}

func fallbackMotivation(name string, total float64, count int) model.MotivationalContent {
	if count > 0 {
		return model.MotivationalContent{
			Headline:        fmt.Sprintf("Thank you, %s!", name),
			Message:         fmt.Sprintf("Your £%.2f across %d donations is powering life-saving research.", total, count),
			ImpactStatement: "Every pound brings us closer to beating cancer.",
		}
	}
	return model.MotivationalContent{
		Headline: fmt.Sprintf("Welcome, %s!", name),
		Message:  "Together we can beat cancer. Thank you for joining us.",
	}
}

// ctaWire is the JSON shape requested from the model.
type ctaWire struct {
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	SuggestedAmounts []float64 `json:"suggestedAmounts"`
}

// CallToAction produces a suggested next step. The model's answer is
// validated; anything off-shape degrades to the formula-based fallback.
func (g *Generator) CallToAction(ctx context.Context, uc *model.UserContext) model.CallToAction {
	var avg float64
	if uc != nil && uc.Profile != nil && uc.Profile.DonationCount > 0 {
		avg = uc.Profile.TotalDonations / float64(uc.Profile.DonationCount)
	}
	fallback := FallbackCTA(avg)

	prompt := fmt.Sprintf(`Suggest one next step for a cancer charity supporter.
Average past donation: £%.2f
Interests: %s

Respond with JSON only:
{"type": "donation|fundraising|event|volunteer", "title": "...", "description": "...", "suggestedAmounts": [10, 25, 50, 100]}`,
		avg, strings.Join(interestsOf(uc), ", "))

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model:       g.model,
		Messages:    []llm.Message{{Role: llm.RoleUser, Content: prompt}},
		Temperature: 0.5,
		MaxTokens:   256,
		JSONMode:    true,
	})
	if err != nil {
		g.log.Warn().Err(err).Msg("CTA generation failed, using fallback")
		return fallback
	}

	var wire ctaWire
	raw := llm.ExtractJSON(resp.Content)
	if raw == "" || json.Unmarshal([]byte(raw), &wire) != nil {
		return fallback
	}
	if !model.ValidCTAType(wire.Type) || wire.Title == "" {
		return fallback
	}

	cta := model.CallToAction{
		Type:             wire.Type,
		Title:            wire.Title,
		Description:      wire.Description,
		SuggestedAmounts: wire.SuggestedAmounts,
	}
	if cta.Type == model.CTADonation && len(cta.SuggestedAmounts) == 0 {
		cta.SuggestedAmounts = fallback.SuggestedAmounts
	}
	return cta
}

// FallbackCTA builds the deterministic donation ask. The base is the
// average donation rounded up to the nearest £5; the ladder scales it
// with floors of £10, £25, £50, and £100.
func FallbackCTA(avg float64) model.CallToAction {
	base := math.Ceil(avg/5) * 5
	amounts := []float64{
		math.Round(math.Max(10, base)),
		math.Round(math.Max(25, base*1.5)),
		math.Round(math.Max(50, base*2)),
		math.Round(math.Max(100, base*3)),
	}
	return model.CallToAction{
		Type:             model.CTADonation,
		Title:            "Make a donation",
		Description:      "Fund life-saving cancer research with a one-off gift.",
		SuggestedAmounts: amounts,
	}
}

// SelectResearchPapers finds papers relevant to the supporter's
// interests, featured first. Supporters with no recorded interests get
// the featured papers. Store failures are logged and produce an empty
// result rather than an error.
func (g *Generator) SelectResearchPapers(ctx context.Context, uc *model.UserContext, limit int) []model.ResearchPaper {
	tags := interestsOf(uc)
	if uc != nil {
		tags = append(tags, uc.Preferences.CauseAreas...)
	}

	if len(tags) == 0 {
		papers, err := g.store.FeaturedPapers(ctx, limit)
		if err != nil {
			g.log.Warn().Err(err).Msg("featured paper lookup failed")
			return nil
		}
		return papers
	}

	papers, err := g.store.SearchResearchPapers(ctx, tags, limit)
	if err != nil {
		g.log.Warn().Err(err).Msg("research paper lookup failed")
		return nil
	}
	return papers
}

// SummarizeInput condenses free text the supporter wrote, used when a
// new-user flow plays their answer back for confirmation.
func (g *Generator) SummarizeInput(ctx context.Context, text string) string {
	text = strings.TrimSpace(text)
	if text == "" {
		return ""
	}

	resp, err := g.provider.Complete(ctx, llm.CompletionRequest{
		Model: g.model,
		Messages: []llm.Message{
			{Role: llm.RoleSystem, Content: "Summarize what this charity supporter told us about themselves in one short sentence, second person (\"you ...\"). Plain text, no preamble."},
			{Role: llm.RoleUser, Content: text},
		},
		Temperature: 0.3,
		MaxTokens:   128,
	})
	if err != nil || strings.TrimSpace(resp.Content) == "" {
		if err != nil {
			g.log.Warn().Err(err).Msg("input summary failed, echoing input")
		}
		return truncate(text, 200)
	}
	return strings.TrimSpace(resp.Content)
}

func interestsOf(uc *model.UserContext) []string {
	if uc == nil {
		return nil
	}
	return uc.Preferences.Interests
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "…"
}
