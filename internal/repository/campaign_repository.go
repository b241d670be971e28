// internal/repository/campaign_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/truesoul/offerengine-backend/internal/model"
)

type CampaignRepositoryInterface interface {
	GetByID(ctx context.Context, id string) (*model.Campaign, error)
	UpdateStatus(ctx context.Context, id, status string) error
	LeadsWithoutJobs(ctx context.Context, campaignID string, limit int) ([]model.Lead, error)
}

type CampaignRepository struct {
	DB *sql.DB
}

func (r *CampaignRepository) GetByID(ctx context.Context, id string) (*model.Campaign, error) {
	query := `
        SELECT id, name, status, subject_template, daily_limit,
               min_interval_seconds, max_interval_seconds, created_at, updated_at
        FROM campaigns WHERE id=$1
    `
	c := &model.Campaign{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.Name, &c.Status, &c.SubjectTemplate, &c.DailyLimit,
		&c.MinIntervalSecs, &c.MaxIntervalSecs, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return c, nil
}

func (r *CampaignRepository) UpdateStatus(ctx context.Context, id, status string) error {
	_, err := r.DB.ExecContext(ctx,
		`UPDATE campaigns SET status=$1, updated_at=NOW() WHERE id=$2`, status, id)
	if err != nil {
		return fmt.Errorf("update campaign %s status: %w", id, err)
	}
	return nil
}

// LeadsWithoutJobs selects leads that have no job yet for this campaign.
// Used by launch to avoid double-queuing a lead.
func (r *CampaignRepository) LeadsWithoutJobs(ctx context.Context, campaignID string, limit int) ([]model.Lead, error) {
	query := `
        SELECT l.id, l.contact_name, l.contact_email, l.property_address, l.property_city,
               l.property_state, l.property_postal_code, l.property_type, l.square_footage,
               l.beds, l.baths, l.year_built, l.assessed_total, l.market_region
        FROM normalized_leads l
        WHERE l.contact_email IS NOT NULL AND l.contact_email <> ''
          AND NOT EXISTS (
              SELECT 1 FROM campaign_jobs j
              WHERE j.campaign_id = $1 AND j.lead_id = l.id
          )
        ORDER BY l.id ASC
        LIMIT $2
    `
	rows, err := r.DB.QueryContext(ctx, query, campaignID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []model.Lead{}
	for rows.Next() {
		var l model.Lead
		if err := rows.Scan(
			&l.ID, &l.ContactName, &l.ContactEmail, &l.PropertyAddress, &l.PropertyCity,
			&l.PropertyState, &l.PropertyPostalCode, &l.PropertyType, &l.SquareFootage,
			&l.Beds, &l.Baths, &l.YearBuilt, &l.AssessedTotal, &l.MarketRegion,
		); err != nil {
			return nil, err
		}
		leads = append(leads, l)
	}
	return leads, rows.Err()
}

var _ CampaignRepositoryInterface = (*CampaignRepository)(nil)
