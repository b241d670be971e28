// internal/model/sender.go
package model

import "time"

// Sender is an email identity used for impersonated sending. Selection
// for new campaigns is oldest active first.
type Sender struct {
	ID              string    `db:"id" json:"id"`
	SenderEmail     string    `db:"sender_email" json:"sender_email"`
	SenderName      string    `db:"sender_name" json:"sender_name"`
	IsActive        bool      `db:"is_active" json:"is_active"`
	CredentialsJSON string    `db:"credentials_json" json:"-"`
	CreatedAt       time.Time `db:"created_at" json:"created_at"`
}
