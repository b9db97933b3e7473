package speech

import (
	"context"
	"errors"
	"strings"
)

// Voice styles accepted by Synthesize. Unknown styles fall back to StyleNatural.
const (
	StyleNatural   = "natural"
	StyleEnergetic = "energetic"
	StyleCalm      = "calm"

	// StyleOriginal tags posts whose audio is the user's own recording
	StyleOriginal = "original"
)

// VoiceSettings are the acoustic parameters sent to the synthesis service
type VoiceSettings struct {
	Stability      float64 `json:"stability"`
	Expressiveness float64 `json:"similarity_boost"`
}

var styleSettings = map[string]VoiceSettings{
	StyleNatural:   {Stability: 0.5, Expressiveness: 0.5},
	StyleEnergetic: {Stability: 0.3, Expressiveness: 0.7},
	StyleCalm:      {Stability: 0.8, Expressiveness: 0.3},
}

// NormalizeStyle lowercases style and maps unknown values to StyleNatural
func NormalizeStyle(style string) string {
	s := strings.ToLower(strings.TrimSpace(style))
	if _, ok := styleSettings[s]; ok {
		return s
	}
	return StyleNatural
}

// SettingsForStyle returns the acoustic parameters for a style
func SettingsForStyle(style string) VoiceSettings {
	return styleSettings[NormalizeStyle(style)]
}

// VoiceProfile is a per-user voice override
type VoiceProfile struct {
	Stability      *float64
	Expressiveness *float64
	VoiceID        string
}

// Apply overlays the profile's acoustic overrides on base
func (p *VoiceProfile) Apply(base VoiceSettings) VoiceSettings {
	if p == nil {
		return base
	}
	if p.Stability != nil {
		base.Stability = *p.Stability
	}
	if p.Expressiveness != nil {
		base.Expressiveness = *p.Expressiveness
	}
	return base
}

// SynthesisRequest describes one synthesis call
type SynthesisRequest struct {
	Text     string
	Style    string
	Username string
	UserID   int64
}

// Synthesis is the result of a successful synthesis call
type Synthesis struct {
	ContentType     string
	Style           string
	Audio           []byte
	DurationSeconds float64
}

// StaticVoiceProfiles is a username-keyed profile table, typically loaded from config
type StaticVoiceProfiles map[string]VoiceProfile

// GetVoiceProfile implements VoiceProfileStore
func (s StaticVoiceProfiles) GetVoiceProfile(_ context.Context, _ int64, username string) (*VoiceProfile, error) {
	p, ok := s[strings.ToLower(username)]
	if !ok {
		return nil, ErrNoVoiceProfile
	}
	return &p, nil
}

// ChainVoiceProfiles consults each store in order and returns the first profile found
func ChainVoiceProfiles(stores ...VoiceProfileStore) VoiceProfileStore {
	return voiceProfileChain(stores)
}

type voiceProfileChain []VoiceProfileStore

func (c voiceProfileChain) GetVoiceProfile(ctx context.Context, userID int64, username string) (*VoiceProfile, error) {
	for _, store := range c {
		if store == nil {
			continue
		}
		p, err := store.GetVoiceProfile(ctx, userID, username)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ErrNoVoiceProfile) {
			return nil, err
		}
	}
	return nil, ErrNoVoiceProfile
}
