package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"Echo/internal/core/speech"
)

// VoiceProfileRepo implements speech.VoiceProfileStore over the voice_profiles table
type VoiceProfileRepo struct {
	db *sql.DB
}

// NewVoiceProfileRepository creates a new PostgreSQL voice profile repository
func NewVoiceProfileRepository(db *sql.DB) *VoiceProfileRepo {
	return &VoiceProfileRepo{db: db}
}

// GetVoiceProfile looks the profile up by user id; username is unused
func (r *VoiceProfileRepo) GetVoiceProfile(ctx context.Context, userID int64, _ string) (*speech.VoiceProfile, error) {
	var profile speech.VoiceProfile
	var stability, expressiveness sql.NullFloat64

	err := r.db.QueryRowContext(ctx,
		`SELECT voice_id, stability, expressiveness FROM voice_profiles WHERE user_id = $1`, userID,
	).Scan(&profile.VoiceID, &stability, &expressiveness)
	if err == sql.ErrNoRows {
		return nil, speech.ErrNoVoiceProfile
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get voice profile: %w", err)
	}

	profile.Stability = nullFloatPtr(stability)
	profile.Expressiveness = nullFloatPtr(expressiveness)
	return &profile, nil
}

// SetVoiceProfile creates or replaces a user's voice profile
func (r *VoiceProfileRepo) SetVoiceProfile(ctx context.Context, userID int64, profile speech.VoiceProfile) error {
	query := `
		INSERT INTO voice_profiles (user_id, voice_id, stability, expressiveness)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id) DO UPDATE SET
			voice_id = EXCLUDED.voice_id,
			stability = EXCLUDED.stability,
			expressiveness = EXCLUDED.expressiveness,
			updated_at = NOW()`

	if _, err := r.db.ExecContext(ctx, query, userID, profile.VoiceID, profile.Stability, profile.Expressiveness); err != nil {
		return fmt.Errorf("failed to set voice profile: %w", err)
	}
	return nil
}
