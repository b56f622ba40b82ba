// Package model defines the domain types shared across the supporter
// engagement service: profiles, donations, versioned user contexts,
// agent sessions, and generated content.
package model

import "time"

// ProfileType classifies a supporter for personalization purposes.
type ProfileType string

const (
	ProfileNewUser       ProfileType = "NEW_USER"
	ProfileReturningUser ProfileType = "RETURNING_USER"
	ProfileBasicInfo     ProfileType = "BASIC_INFO"
)

// UserProfile is the canonical supporter record.
type UserProfile struct {
	UserID                   string                   `json:"userId"`
	Email                    string                   `json:"email,omitempty"`
	FirstName                string                   `json:"firstName,omitempty"`
	LastName                 string                   `json:"lastName,omitempty"`
	Postcode                 string                   `json:"postcode,omitempty"`
	RegistrationDate         time.Time                `json:"registrationDate,omitempty"`
	TotalDonations           float64                  `json:"totalDonations"`
	DonationCount            int                      `json:"donationCount"`
	LastDonationDate         *time.Time               `json:"lastDonationDate,omitempty"`
	Interests                []string                 `json:"interests,omitempty"`
	PreferredCauses          []string                 `json:"preferredCauses,omitempty"`
	CommunicationPreferences CommunicationPreferences `json:"communicationPreferences"`
	HasAttendedEvents        bool                     `json:"hasAttendedEvents"`
	HasFundraised            bool                     `json:"hasFundraised"`
}

// DisplayName returns the supporter's first name, falling back to a
// generic form of address when the profile has no name on file.
func (p *UserProfile) DisplayName() string {
	if p == nil || p.FirstName == "" {
		return "Supporter"
	}
	return p.FirstName
}

// CommunicationPreferences records the channels a supporter has opted into.
type CommunicationPreferences struct {
	Email bool `json:"email"`
	SMS   bool `json:"sms"`
	Post  bool `json:"post"`
}

// Donation is a single gift received from a supporter.
type Donation struct {
	DonationID    string    `json:"donationId"`
	UserID        string    `json:"userId"`
	Amount        float64   `json:"amount"`
	Currency      string    `json:"currency"`
	ReceivedDate  time.Time `json:"receivedDate"`
	CampaignID    string    `json:"campaignId,omitempty"`
	GiftAid       bool      `json:"giftAid"`
	PaymentMethod string    `json:"paymentMethod,omitempty"`
}

// DonationSummary aggregates a supporter's giving history.
type DonationSummary struct {
	TotalAmount   float64    `json:"totalAmount"`
	Count         int        `json:"count"`
	AverageAmount float64    `json:"averageAmount"`
	FirstDonation *time.Time `json:"firstDonation,omitempty"`
	LastDonation  *time.Time `json:"lastDonation,omitempty"`
}

// FundraisingPage is a supporter-owned fundraising campaign page.
type FundraisingPage struct {
	PageID       string    `json:"pageId"`
	UserID       string    `json:"userId"`
	Title        string    `json:"title"`
	TargetAmount float64   `json:"targetAmount"`
	RaisedAmount float64   `json:"raisedAmount"`
	Status       string    `json:"status"` // "open" or "closed"
	CreatedAt    time.Time `json:"createdAt"`
}
