package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"Echo/internal/core/speech/audio"
)

// DefaultSynthesisTimeout bounds a single synthesis request
const DefaultSynthesisTimeout = 30 * time.Second

// maxSynthesisBytes caps the audio body read from the synthesis service
const maxSynthesisBytes = 20 << 20

// ElevenLabsConfig configures an ElevenLabsClient
type ElevenLabsConfig struct {
	BaseURL        string
	APIKey         string
	Model          string
	DefaultVoiceID string
	Timeout        time.Duration
}

// ElevenLabsClient synthesizes speech through the ElevenLabs text-to-speech API
type ElevenLabsClient struct {
	httpClient *http.Client
	profiles   VoiceProfileStore
	logger     *slog.Logger
	cfg        ElevenLabsConfig
}

type synthesisBody struct {
	Text          string        `json:"text"`
	ModelID       string        `json:"model_id"`
	VoiceSettings VoiceSettings `json:"voice_settings"`
}

// NewElevenLabsClient creates a synthesis client. profiles may be nil.
func NewElevenLabsClient(cfg ElevenLabsConfig, profiles VoiceProfileStore, logger *slog.Logger) *ElevenLabsClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultSynthesisTimeout
	}
	return &ElevenLabsClient{
		cfg:      cfg,
		profiles: profiles,
		logger:   logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Synthesize implements Synthesizer
func (c *ElevenLabsClient) Synthesize(ctx context.Context, req SynthesisRequest) (*Synthesis, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, c.fail(req, CauseRequest, 0, errors.New("text cannot be empty"))
	}

	style := NormalizeStyle(req.Style)
	settings := SettingsForStyle(style)
	voiceID := c.cfg.DefaultVoiceID

	profile, err := c.resolveProfile(ctx, req)
	if err != nil {
		return nil, c.fail(req, CauseRequest, 0, err)
	}
	if profile != nil {
		settings = profile.Apply(settings)
		if profile.VoiceID != "" {
			voiceID = profile.VoiceID
		}
	}

	payload, err := json.Marshal(synthesisBody{
		Text:          text,
		ModelID:       c.cfg.Model,
		VoiceSettings: settings,
	})
	if err != nil {
		return nil, c.fail(req, CauseRequest, 0, fmt.Errorf("failed to encode request: %w", err))
	}

	endpoint := strings.TrimSuffix(c.cfg.BaseURL, "/") + "/" + voiceID
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, c.fail(req, CauseRequest, 0, fmt.Errorf("failed to create request: %w", err))
	}
	httpReq.Header.Set("Accept", "audio/mpeg")
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("xi-api-key", c.cfg.APIKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.fail(req, CauseUnreachable, 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close synthesis response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return nil, c.fail(req, CauseStatus, resp.StatusCode, fmt.Errorf("synthesis API returned: %s", string(preview)))
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxSynthesisBytes+1))
	if err != nil {
		return nil, c.fail(req, CauseMalformed, resp.StatusCode, fmt.Errorf("failed to read audio: %w", err))
	}
	if len(body) == 0 {
		return nil, c.fail(req, CauseMalformed, resp.StatusCode, errors.New("empty audio body"))
	}
	if len(body) > maxSynthesisBytes {
		return nil, c.fail(req, CauseMalformed, resp.StatusCode, fmt.Errorf("audio body exceeds %d bytes", maxSynthesisBytes))
	}
	if ct := resp.Header.Get("Content-Type"); strings.HasPrefix(ct, "application/json") || strings.HasPrefix(ct, "text/") {
		return nil, c.fail(req, CauseMalformed, resp.StatusCode, fmt.Errorf("unexpected content type %q", ct))
	}

	duration, err := audio.Duration(bytes.NewReader(body), audio.FormatMP3)
	if err != nil {
		c.logger.Warn("could not measure synthesized audio duration",
			"user", req.Username,
			"bytes", len(body),
			"error", err)
		duration = 0
	}

	return &Synthesis{
		Audio:           body,
		ContentType:     "audio/mpeg",
		DurationSeconds: duration,
		Style:           style,
	}, nil
}

func (c *ElevenLabsClient) resolveProfile(ctx context.Context, req SynthesisRequest) (*VoiceProfile, error) {
	if c.profiles == nil {
		return nil, nil
	}
	profile, err := c.profiles.GetVoiceProfile(ctx, req.UserID, req.Username)
	if errors.Is(err, ErrNoVoiceProfile) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to resolve voice profile: %w", err)
	}
	return profile, nil
}

func (c *ElevenLabsClient) fail(req SynthesisRequest, cause FailureCause, status int, err error) error {
	attrs := []any{"cause", string(cause), "user", req.Username, "error", err}
	if status != 0 {
		attrs = append(attrs, "status", status)
	}
	c.logger.Error("speech synthesis failed", attrs...)
	return newServiceError(OpSynthesize, cause, status, err)
}
