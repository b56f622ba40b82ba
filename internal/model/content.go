package model

import "time"

// ImpactItem is one line of a donation impact breakdown, e.g.
// "10 hours of groundbreaking research".
type ImpactItem struct {
	Quantity    int    `json:"quantity"`
	Description string `json:"description"`
	Icon        string `json:"icon,omitempty"`
}

// MotivationalContent is a personalized encouragement message.
type MotivationalContent struct {
	Headline        string `json:"headline"`
	Message         string `json:"message"`
	ImpactStatement string `json:"impactStatement,omitempty"`
}

// CTA types the content generator may produce.
const (
	CTADonation    = "donation"
	CTAFundraising = "fundraising"
	CTAEvent       = "event"
	CTAVolunteer   = "volunteer"
)

// ValidCTAType reports whether t is one of the allowed CTA types.
func ValidCTAType(t string) bool {
	switch t {
	case CTADonation, CTAFundraising, CTAEvent, CTAVolunteer:
		return true
	}
	return false
}

// CallToAction is a suggested next step for the supporter.
type CallToAction struct {
	Type             string    `json:"type"`
	Title            string    `json:"title"`
	Description      string    `json:"description"`
	SuggestedAmounts []float64 `json:"suggestedAmounts,omitempty"`
}

// Achievement is a milestone shown on the supporter dashboard.
type Achievement struct {
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Icon        string    `json:"icon,omitempty"`
	Date        time.Time `json:"date,omitempty"`
}

// CampaignProgress summarizes an open fundraising page.
type CampaignProgress struct {
	PageID          string  `json:"pageId"`
	Title           string  `json:"title"`
	TargetAmount    float64 `json:"targetAmount"`
	RaisedAmount    float64 `json:"raisedAmount"`
	PercentComplete float64 `json:"percentComplete"`
}

// PageRecommendation points the supporter at a relevant site page.
type PageRecommendation struct {
	Title  string `json:"title"`
	URL    string `json:"url"`
	Reason string `json:"reason,omitempty"`
}

// SuggestedLink is a quick navigation link on the dashboard.
type SuggestedLink struct {
	Label string `json:"label"`
	URL   string `json:"url"`
}

// DashboardData is the personalized dashboard for a returning supporter.
type DashboardData struct {
	WelcomeMessage   string               `json:"welcomeMessage"`
	DonationSummary  DonationSummary      `json:"donationSummary"`
	ImpactBreakdown  []ImpactItem         `json:"impactBreakdown"`
	Achievements     []Achievement        `json:"achievements,omitempty"`
	FeaturedResearch []ResearchPaper      `json:"featuredResearch,omitempty"`
	RecommendedPages []PageRecommendation `json:"recommendedPages,omitempty"`
	CampaignProgress *CampaignProgress    `json:"campaignProgress,omitempty"`
	SuggestedLinks   []SuggestedLink      `json:"suggestedLinks,omitempty"`
}
