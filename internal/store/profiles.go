package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// GetProfile retrieves a supporter profile by user ID. Returns
// model.ErrNotFound when no such user exists.
func (s *Store) GetProfile(ctx context.Context, userID string) (*model.UserProfile, error) {
	var (
		p                model.UserProfile
		regDate          sql.NullTime
		lastDonation     sql.NullTime
		interests        string
		preferredCauses  string
		commsPreferences string
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT user_id, email, first_name, last_name, postcode, registration_date,
		        total_donations, donation_count, last_donation_date,
		        interests, preferred_causes, communication_preferences,
		        has_attended_events, has_fundraised
		 FROM users WHERE user_id = ?`, userID,
	).Scan(&p.UserID, &p.Email, &p.FirstName, &p.LastName, &p.Postcode, &regDate,
		&p.TotalDonations, &p.DonationCount, &lastDonation,
		&interests, &preferredCauses, &commsPreferences,
		&p.HasAttendedEvents, &p.HasFundraised)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting profile: %w", err)
	}

	if regDate.Valid {
		p.RegistrationDate = regDate.Time
	}
	if lastDonation.Valid {
		t := lastDonation.Time
		p.LastDonationDate = &t
	}
	p.Interests = unmarshalStrings(interests)
	p.PreferredCauses = unmarshalStrings(preferredCauses)
	if commsPreferences != "" {
		json.Unmarshal([]byte(commsPreferences), &p.CommunicationPreferences)
	}
	return &p, nil
}

// PutProfile inserts or replaces a supporter profile.
func (s *Store) PutProfile(ctx context.Context, p *model.UserProfile) error {
	var lastDonation any
	if p.LastDonationDate != nil {
		lastDonation = *p.LastDonationDate
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO users
		 (user_id, email, first_name, last_name, postcode, registration_date,
		  total_donations, donation_count, last_donation_date,
		  interests, preferred_causes, communication_preferences,
		  has_attended_events, has_fundraised)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.UserID, p.Email, p.FirstName, p.LastName, p.Postcode, p.RegistrationDate,
		p.TotalDonations, p.DonationCount, lastDonation,
		marshalStrings(p.Interests), marshalStrings(p.PreferredCauses),
		marshal(p.CommunicationPreferences),
		p.HasAttendedEvents, p.HasFundraised,
	)
	if err != nil {
		return fmt.Errorf("putting profile: %w", err)
	}
	return nil
}
