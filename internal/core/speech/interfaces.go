package speech

import "context"

// Transcriber turns a recorded audio file into text
type Transcriber interface {
	// Transcribe uploads the file at audioPath to the transcription service.
	// A successful call with no detected speech returns ("", nil).
	// Failures return a *ServiceError matching ErrTranscriptionService.
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

// Synthesizer turns text into spoken audio
type Synthesizer interface {
	// Synthesize renders req.Text in the requested style.
	// Failures return a *ServiceError matching ErrSynthesis.
	Synthesize(ctx context.Context, req SynthesisRequest) (*Synthesis, error)
}

// VoiceProfileStore resolves the synthesis voice for a user at call time
type VoiceProfileStore interface {
	// GetVoiceProfile returns ErrNoVoiceProfile when the user has none
	GetVoiceProfile(ctx context.Context, userID int64, username string) (*VoiceProfile, error)
}
