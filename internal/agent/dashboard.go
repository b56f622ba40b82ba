package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// buildDashboard assembles the returning-supporter dashboard. Each
// section is independent: a failed lookup logs a warning and leaves its
// section empty rather than failing the whole dashboard.
func (a *Agent) buildDashboard(ctx context.Context, userID string, uc *model.UserContext, donations []model.Donation) *model.DashboardData {
	var p *model.UserProfile
	if uc != nil {
		p = uc.Profile
	}

	summary, err := a.store.DonationSummary(ctx, userID)
	if err != nil {
		a.log.Warn().Err(err).Str("user", userID).Msg("donation summary failed")
		summary = &model.DonationSummary{}
	}

	dd := &model.DashboardData{
		WelcomeMessage:  dashboardWelcome(p, summary),
		DonationSummary: *summary,
		ImpactBreakdown: a.content.ImpactBreakdown(donations),
		Achievements:    achievements(summary),
		SuggestedLinks: []model.SuggestedLink{
			{Label: "Donate", URL: "/donate"},
			{Label: "Find an event", URL: "/events"},
			{Label: "About our research", URL: "/research"},
		},
	}

	dd.FeaturedResearch = a.content.SelectResearchPapers(ctx, uc, 3)
	dd.RecommendedPages = recommendedPages(uc)

	page, err := a.store.OpenFundraisingPage(ctx, userID)
	switch {
	case err == nil:
		progress := &model.CampaignProgress{
			PageID:       page.PageID,
			Title:        page.Title,
			TargetAmount: page.TargetAmount,
			RaisedAmount: page.RaisedAmount,
		}
		if page.TargetAmount > 0 {
			progress.PercentComplete = math.Round(page.RaisedAmount / page.TargetAmount * 100)
		}
		dd.CampaignProgress = progress
	case errors.Is(err, model.ErrNotFound):
		// No open page; nothing to show.
	default:
		a.log.Warn().Err(err).Str("user", userID).Msg("fundraising page lookup failed")
	}

	return dd
}

func dashboardWelcome(p *model.UserProfile, summary *model.DonationSummary) string {
	greeting := "Hello"
	switch h := time.Now().Hour(); {
	case h < 12:
		greeting = "Good morning"
	case h < 18:
		greeting = "Good afternoon"
	default:
		greeting = "Good evening"
	}

	name := p.DisplayName()
	if summary != nil && summary.Count > 0 {
		return fmt.Sprintf("%s, %s! Your £%.2f in donations is making a real difference — here's your impact.", greeting, name, summary.TotalAmount)
	}
	return fmt.Sprintf("%s, %s! Here's what your support is doing.", greeting, name)
}

// achievements derives giving milestones from the donation summary.
func achievements(summary *model.DonationSummary) []model.Achievement {
	if summary == nil || summary.Count == 0 {
		return nil
	}

	var out []model.Achievement
	if summary.FirstDonation != nil {
		out = append(out, model.Achievement{
			Title:       "First donation",
			Description: "You joined the fight against cancer.",
			Icon:        "🌟",
			Date:        *summary.FirstDonation,
		})
	}
	for _, m := range []struct {
		threshold float64
		title     string
	}{
		{100, "£100 milestone"},
		{500, "£500 milestone"},
		{1000, "£1,000 milestone"},
	} {
		if summary.TotalAmount >= m.threshold {
			out = append(out, model.Achievement{
				Title:       m.title,
				Description: fmt.Sprintf("Your giving has passed £%.0f.", m.threshold),
				Icon:        "🏆",
			})
		}
	}
	if summary.Count >= 5 {
		out = append(out, model.Achievement{
			Title:       "Regular supporter",
			Description: fmt.Sprintf("%d donations and counting.", summary.Count),
			Icon:        "💙",
		})
	}
	return out
}

// recommendedPages maps the supporter's interests onto site sections.
func recommendedPages(uc *model.UserContext) []model.PageRecommendation {
	if uc == nil {
		return nil
	}

	var out []model.PageRecommendation
	seen := map[string]bool{}
	add := func(title, url, reason string) {
		if !seen[url] {
			seen[url] = true
			out = append(out, model.PageRecommendation{Title: title, URL: url, Reason: reason})
		}
	}

	for _, interest := range append(uc.Preferences.Interests, uc.Preferences.CauseAreas...) {
		switch interest {
		case "research", "clinical trials":
			add("Our research", "/research", "Because you're interested in "+interest)
		case "fundraising", "events":
			add("Events near you", "/events", "Because you're interested in "+interest)
		case "volunteering":
			add("Volunteer with us", "/volunteer", "Because you're interested in "+interest)
		case "screening", "prevention":
			add("Cancer prevention", "/prevention", "Because you're interested in "+interest)
		}
	}
	return out
}
