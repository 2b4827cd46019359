package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/pagemd"
)

// Compile-time interface verification.
var _ pagemd.PreferenceService = (*PreferenceService)(nil)

// PreferenceService implements pagemd.PreferenceService using SQLite.
// Preferences are stored one row per key so that a value saved by an
// older version survives the addition of new keys.
type PreferenceService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewPreferenceService creates a new PreferenceService.
func NewPreferenceService(db *DB) *PreferenceService {
	return &PreferenceService{db: db, Now: time.Now}
}

// FindPreferences returns the stored preferences layered over the defaults.
func (s *PreferenceService) FindPreferences(ctx context.Context) (*pagemd.Preferences, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT key, value FROM preferences ORDER BY key")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var upd pagemd.PreferencesUpdate
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, err
		}
		if err := upd.Set(key, value); err != nil {
			return nil, pagemd.Errorf(pagemd.EINTERNAL, "stored preference %q is corrupt: %s", key, pagemd.ErrorMessage(err))
		}
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	prefs := pagemd.DefaultPreferences()
	upd.Apply(prefs)
	return prefs, nil
}

// UpdatePreferences applies upd to the stored preferences and saves the result.
func (s *PreferenceService) UpdatePreferences(ctx context.Context, upd pagemd.PreferencesUpdate) (*pagemd.Preferences, error) {
	prefs, err := s.FindPreferences(ctx)
	if err != nil {
		return nil, err
	}

	upd.Apply(prefs)

	// Validate before persisting
	if err := prefs.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	now := s.Now().UTC().Format(time.RFC3339)
	values := prefs.Values()
	for _, key := range pagemd.PreferenceKeys() {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO preferences (key, value, updated_at)
			VALUES (?, ?, ?)
			ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
		`, key, values[key], now); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}

	return prefs, nil
}
