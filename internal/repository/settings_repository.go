// internal/repository/settings_repository.go
package repository

import (
	"context"
	"database/sql"
	"fmt"
)

type SettingsRepositoryInterface interface {
	TemplateDir(ctx context.Context) (string, error)
}

// SettingsRepository reads the app_settings key/value store. The engine
// only needs one key today.
type SettingsRepository struct {
	DB *sql.DB
}

const templateDirKey = "template_directory"

// TemplateDir resolves the directory holding the email and PDF
// templates, relative to the process working directory. A missing row is
// a configuration error the dispatcher treats as fatal per job.
func (r *SettingsRepository) TemplateDir(ctx context.Context) (string, error) {
	var dir string
	err := r.DB.QueryRowContext(ctx,
		`SELECT value FROM app_settings WHERE key=$1`, templateDirKey,
	).Scan(&dir)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", fmt.Errorf("setting %q is not configured", templateDirKey)
		}
		return "", err
	}
	if dir == "" {
		return "", fmt.Errorf("setting %q is empty", templateDirKey)
	}
	return dir, nil
}

var _ SettingsRepositoryInterface = (*SettingsRepository)(nil)
