package speech

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// DefaultTranscriptionTimeout bounds a single transcription request
const DefaultTranscriptionTimeout = 60 * time.Second

// Form field names for the transcription endpoint
const (
	formFieldFile           = "file"
	formFieldModel          = "model"
	formFieldLanguage       = "language"
	formFieldResponseFormat = "response_format"
)

// WhisperConfig configures a WhisperClient
type WhisperConfig struct {
	Endpoint string
	APIKey   string
	Model    string
	Language string
	Timeout  time.Duration
}

// WhisperClient transcribes audio through a Whisper-compatible HTTP API
type WhisperClient struct {
	httpClient *http.Client
	logger     *slog.Logger
	cfg        WhisperConfig
}

// whisperResponse is the JSON body returned by the transcription endpoint
type whisperResponse struct {
	Text *string `json:"text"`
}

// NewWhisperClient creates a transcription client
func NewWhisperClient(cfg WhisperConfig, logger *slog.Logger) *WhisperClient {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTranscriptionTimeout
	}
	if cfg.Model == "" {
		cfg.Model = "whisper-1"
	}
	return &WhisperClient{
		cfg:    cfg,
		logger: logger,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Transcribe implements Transcriber
func (c *WhisperClient) Transcribe(ctx context.Context, audioPath string) (string, error) {
	body, contentType, err := c.buildForm(audioPath)
	if err != nil {
		return "", c.fail(CauseRequest, 0, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.Endpoint, body)
	if err != nil {
		return "", c.fail(CauseRequest, 0, fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Authorization", "Bearer "+c.cfg.APIKey)
	req.Header.Set("Content-Type", contentType)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", c.fail(CauseUnreachable, 0, err)
	}
	defer func() {
		if closeErr := resp.Body.Close(); closeErr != nil {
			c.logger.Warn("failed to close transcription response body", "error", closeErr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		preview, _ := io.ReadAll(io.LimitReader(resp.Body, 200))
		return "", c.fail(CauseStatus, resp.StatusCode, fmt.Errorf("transcription API returned: %s", string(preview)))
	}

	var parsed whisperResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return "", c.fail(CauseMalformed, resp.StatusCode, fmt.Errorf("failed to decode response: %w", err))
	}
	if parsed.Text == nil {
		return "", nil
	}

	return strings.TrimSpace(*parsed.Text), nil
}

func (c *WhisperClient) buildForm(audioPath string) (*bytes.Buffer, string, error) {
	file, err := os.Open(audioPath)
	if err != nil {
		return nil, "", fmt.Errorf("failed to open audio file: %w", err)
	}
	defer func() {
		if closeErr := file.Close(); closeErr != nil {
			c.logger.Warn("failed to close audio file", "path", audioPath, "error", closeErr)
		}
	}()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(formFieldFile, filepath.Base(audioPath))
	if err != nil {
		return nil, "", fmt.Errorf("failed to create form file: %w", err)
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", fmt.Errorf("failed to copy file data: %w", err)
	}
	if err := writer.WriteField(formFieldModel, c.cfg.Model); err != nil {
		return nil, "", fmt.Errorf("failed to write model field: %w", err)
	}
	if err := writer.WriteField(formFieldResponseFormat, "json"); err != nil {
		return nil, "", fmt.Errorf("failed to write response format field: %w", err)
	}
	if c.cfg.Language != "" {
		if err := writer.WriteField(formFieldLanguage, c.cfg.Language); err != nil {
			return nil, "", fmt.Errorf("failed to write language field: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("failed to close multipart writer: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}

func (c *WhisperClient) fail(cause FailureCause, status int, err error) error {
	attrs := []any{"cause", string(cause), "error", err}
	if status != 0 {
		attrs = append(attrs, "status", status)
	}
	if errors.Is(err, context.DeadlineExceeded) {
		attrs = append(attrs, "timeout", c.cfg.Timeout.String())
	}
	c.logger.Error("transcription failed", attrs...)
	return newServiceError(OpTranscribe, cause, status, err)
}
