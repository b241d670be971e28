package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func senderRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "sender_email", "sender_name", "is_active", "credentials_json", "created_at",
	})
}

func TestOldestActivePicksFirstActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM senders WHERE is_active=true ORDER BY created_at ASC LIMIT 1`).
		WillReturnRows(senderRows().
			AddRow("sender-1", "offers@truesoulpartners.com", "Sam Rivers", true, "{}", created))

	repo := &SenderRepository{DB: db}
	s, err := repo.OldestActive(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sender-1", s.ID)
	assert.True(t, s.IsActive)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestOldestActiveNoneConfigured(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM senders WHERE is_active=true`).
		WillReturnRows(senderRows())

	repo := &SenderRepository{DB: db}
	_, err = repo.OldestActive(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no active sender")
}

func TestGetActiveRejectsInactiveSender(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery(`SELECT .+ FROM senders WHERE id=\$1 AND is_active=true`).
		WithArgs("sender-2").
		WillReturnRows(senderRows())

	repo := &SenderRepository{DB: db}
	s, err := repo.GetActive(context.Background(), "sender-2")
	require.NoError(t, err)
	assert.Nil(t, s)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestGetActive(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	created := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(`SELECT .+ FROM senders WHERE id=\$1 AND is_active=true`).
		WithArgs("sender-1").
		WillReturnRows(senderRows().
			AddRow("sender-1", "offers@truesoulpartners.com", "Sam Rivers", true, "{}", created))

	repo := &SenderRepository{DB: db}
	s, err := repo.GetActive(context.Background(), "sender-1")
	require.NoError(t, err)
	assert.Equal(t, "Sam Rivers", s.SenderName)
	require.NoError(t, mock.ExpectationsWereMet())
}
