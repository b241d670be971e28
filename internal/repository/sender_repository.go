// internal/repository/sender_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/truesoul/offerengine-backend/internal/model"
)

type SenderRepositoryInterface interface {
	OldestActive(ctx context.Context) (*model.Sender, error)
	GetActive(ctx context.Context, id string) (*model.Sender, error)
	List(ctx context.Context) ([]model.Sender, error)
}

type SenderRepository struct {
	DB *sql.DB
}

const senderColumns = `id, sender_email, sender_name, is_active, credentials_json, created_at`

// OldestActive picks the sender identity for new campaign launches:
// active senders only, oldest first.
func (r *SenderRepository) OldestActive(ctx context.Context) (*model.Sender, error) {
	query := `SELECT ` + senderColumns + ` FROM senders WHERE is_active=true ORDER BY created_at ASC LIMIT 1`
	s := &model.Sender{}
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&s.ID, &s.SenderEmail, &s.SenderName, &s.IsActive, &s.CredentialsJSON, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no active sender configured")
		}
		return nil, err
	}
	return s, nil
}

// GetActive loads one sender by id, refusing deactivated identities so a
// job assigned to a retired sender fails loudly instead of sending.
// Missing or inactive comes back as nil, nil; the caller decides how
// fatal that is.
func (r *SenderRepository) GetActive(ctx context.Context, id string) (*model.Sender, error) {
	query := `SELECT ` + senderColumns + ` FROM senders WHERE id=$1 AND is_active=true`
	s := &model.Sender{}
	err := r.DB.QueryRowContext(ctx, query, id).Scan(
		&s.ID, &s.SenderEmail, &s.SenderName, &s.IsActive, &s.CredentialsJSON, &s.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

func (r *SenderRepository) List(ctx context.Context) ([]model.Sender, error) {
	rows, err := r.DB.QueryContext(ctx,
		`SELECT `+senderColumns+` FROM senders ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	senders := []model.Sender{}
	for rows.Next() {
		var s model.Sender
		if err := rows.Scan(&s.ID, &s.SenderEmail, &s.SenderName, &s.IsActive, &s.CredentialsJSON, &s.CreatedAt); err != nil {
			return nil, err
		}
		senders = append(senders, s)
	}
	return senders, rows.Err()
}

var _ SenderRepositoryInterface = (*SenderRepository)(nil)
