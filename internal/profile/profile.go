// Package profile serves supporter profiles and classifies them for
// personalization.
package profile

import (
	"github.com/crukhq/supporter-engagement/internal/model"
)

// DetermineProfileType classifies a supporter. The rule is total over
// all inputs: a supporter with no donations, no interests, and a zero
// donation count is new; anyone with giving or engagement history is
// returning; everyone else has basic info only.
func DetermineProfileType(p *model.UserProfile, donations []model.Donation) model.ProfileType {
	if p == nil {
		p = &model.UserProfile{}
	}

	if len(donations) == 0 && len(p.Interests) == 0 && p.DonationCount == 0 {
		return model.ProfileNewUser
	}

	if len(donations) > 0 || p.DonationCount > 0 || p.HasAttendedEvents || p.HasFundraised {
		return model.ProfileReturningUser
	}

	return model.ProfileBasicInfo
}
