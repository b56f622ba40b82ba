package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"github.com/crukhq/supporter-engagement/internal/model"
)

// AddDonation records a donation. A missing donation ID is generated.
func (s *Store) AddDonation(ctx context.Context, d *model.Donation) error {
	if d.DonationID == "" {
		d.DonationID = uuid.New().String()
	}
	if d.Currency == "" {
		d.Currency = "GBP"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO donations (donation_id, user_id, amount, currency, received_date, campaign_id, gift_aid, payment_method)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		d.DonationID, d.UserID, d.Amount, d.Currency, d.ReceivedDate, d.CampaignID, d.GiftAid, d.PaymentMethod,
	)
	if err != nil {
		return fmt.Errorf("adding donation: %w", err)
	}
	return nil
}

// ListDonations returns a supporter's donations, most recent first.
func (s *Store) ListDonations(ctx context.Context, userID string, limit int) ([]model.Donation, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT donation_id, user_id, amount, currency, received_date, campaign_id, gift_aid, payment_method
		 FROM donations WHERE user_id = ? ORDER BY received_date DESC LIMIT ?`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("querying donations: %w", err)
	}
	defer rows.Close()

	var donations []model.Donation
	for rows.Next() {
		var d model.Donation
		if err := rows.Scan(&d.DonationID, &d.UserID, &d.Amount, &d.Currency, &d.ReceivedDate, &d.CampaignID, &d.GiftAid, &d.PaymentMethod); err != nil {
			return nil, fmt.Errorf("scanning donation: %w", err)
		}
		donations = append(donations, d)
	}
	return donations, rows.Err()
}

// DonationSummary aggregates a supporter's giving history in one query.
func (s *Store) DonationSummary(ctx context.Context, userID string) (*model.DonationSummary, error) {
	var (
		sum   model.DonationSummary
		first sql.NullTime
		last  sql.NullTime
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount), 0), COUNT(*), MIN(received_date), MAX(received_date)
		 FROM donations WHERE user_id = ?`, userID,
	).Scan(&sum.TotalAmount, &sum.Count, &first, &last)
	if err != nil {
		return nil, fmt.Errorf("summarizing donations: %w", err)
	}

	if sum.Count > 0 {
		sum.AverageAmount = sum.TotalAmount / float64(sum.Count)
	}
	if first.Valid {
		t := first.Time
		sum.FirstDonation = &t
	}
	if last.Valid {
		t := last.Time
		sum.LastDonation = &t
	}
	return &sum, nil
}

// PutFundraisingPage inserts or replaces a fundraising page.
func (s *Store) PutFundraisingPage(ctx context.Context, p *model.FundraisingPage) error {
	if p.PageID == "" {
		p.PageID = uuid.New().String()
	}
	if p.Status == "" {
		p.Status = "open"
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO fundraising_pages (page_id, user_id, title, target_amount, raised_amount, status, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.PageID, p.UserID, p.Title, p.TargetAmount, p.RaisedAmount, p.Status, p.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("putting fundraising page: %w", err)
	}
	return nil
}

// OpenFundraisingPage returns the supporter's most recent open page, or
// model.ErrNotFound when they have none.
func (s *Store) OpenFundraisingPage(ctx context.Context, userID string) (*model.FundraisingPage, error) {
	var p model.FundraisingPage
	err := s.db.QueryRowContext(ctx,
		`SELECT page_id, user_id, title, target_amount, raised_amount, status, created_at
		 FROM fundraising_pages WHERE user_id = ? AND status = 'open'
		 ORDER BY created_at DESC LIMIT 1`, userID,
	).Scan(&p.PageID, &p.UserID, &p.Title, &p.TargetAmount, &p.RaisedAmount, &p.Status, &p.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, model.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting open fundraising page: %w", err)
	}
	return &p, nil
}
