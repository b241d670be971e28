// cmd/seeder/main.go
//
// Seeds a local database with a campaign, a sender, a handful of leads,
// and their engine-state row so the server and scheduler have something
// to chew on.
package main

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/truesoul/offerengine-backend/internal/config"
	"github.com/truesoul/offerengine-backend/internal/db"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("failed to load config: ", err)
	}

	conn, err := db.Open(cfg.DSN())
	if err != nil {
		log.Fatal("failed to connect to DB: ", err)
	}
	defer conn.Close()

	ctx := context.Background()

	senderID := uuid.NewString()
	if _, err := conn.ExecContext(ctx, `
        INSERT INTO senders (id, sender_email, sender_name, is_active, credentials_json, created_at)
        VALUES ($1, 'offers@truesoulpartners.com', 'Sam Rivers', true, '{}', NOW())
    `, senderID); err != nil {
		log.Fatal("seed sender: ", err)
	}

	campaignID := uuid.NewString()
	if _, err := conn.ExecContext(ctx, `
        INSERT INTO campaigns
            (id, name, status, subject_template, daily_limit,
             min_interval_seconds, max_interval_seconds, created_at)
        VALUES ($1, 'Austin Q1 Offers', 'draft',
                'Cash offer for {{.PropertyAddress}}', 50, 120, 600, NOW())
    `, campaignID); err != nil {
		log.Fatal("seed campaign: ", err)
	}

	if _, err := conn.ExecContext(ctx, `
        INSERT INTO campaign_engine_state (campaign_id, status, updated_at)
        VALUES ($1, 'running', NOW())
        ON CONFLICT (campaign_id) DO NOTHING
    `, campaignID); err != nil {
		log.Fatal("seed engine state: ", err)
	}

	leads := []struct {
		name    string
		email   string
		address string
		city    string
		value   float64
	}{
		{"Jane Doe", "jane@example.com", "123 Main St", "Austin", 100000},
		{"Bob Martin", "bob@example.com", "45 W Elm Ave", "Austin", 250000},
		{"Alice Nguyen", "alice@example.com", "9 Oak Ct", "Round Rock", 185000},
	}
	for _, l := range leads {
		if _, err := conn.ExecContext(ctx, `
            INSERT INTO normalized_leads
                (id, contact_name, contact_email, property_address, property_city,
                 property_state, property_postal_code, assessed_total)
            VALUES ($1, $2, $3, $4, $5, 'TX', '78701', $6)
        `, uuid.NewString(), l.name, l.email, l.address, l.city, l.value); err != nil {
			log.Fatal("seed lead: ", err)
		}
	}

	if _, err := conn.ExecContext(ctx, `
        INSERT INTO app_settings (key, value)
        VALUES ('template_directory', 'templates')
        ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value
    `); err != nil {
		log.Fatal("seed settings: ", err)
	}

	log.Printf("seeded campaign %s with sender %s and %d leads at %s",
		campaignID, senderID, len(leads), time.Now().Format(time.RFC3339))
}
