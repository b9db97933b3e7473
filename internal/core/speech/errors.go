package speech

import (
	"errors"
	"fmt"
)

var (
	// ErrTranscriptionService is the caller-visible kind for every transcription failure
	ErrTranscriptionService = errors.New("transcription service failed")

	// ErrSynthesis is the caller-visible kind for every synthesis failure
	ErrSynthesis = errors.New("speech synthesis failed")

	// ErrNoVoiceProfile indicates no per-user voice is configured
	ErrNoVoiceProfile = errors.New("no voice profile for user")
)

// Operations reported in ServiceError.Op
const (
	OpTranscribe = "transcribe"
	OpSynthesize = "synthesize"
)

// FailureCause distinguishes why an external speech call failed.
// All causes map to the same caller-visible error kind.
type FailureCause string

const (
	CauseUnreachable FailureCause = "unreachable"
	CauseStatus      FailureCause = "status"
	CauseMalformed   FailureCause = "malformed"
	CauseRequest     FailureCause = "request"
)

// ServiceError wraps a failed call to an external speech service
type ServiceError struct {
	Err        error
	Op         string
	Cause      FailureCause
	StatusCode int
}

func (e *ServiceError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s failed (%s, HTTP %d): %v", e.Op, e.Cause, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s failed (%s): %v", e.Op, e.Cause, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match the operation's caller-visible kind
func (e *ServiceError) Is(target error) bool {
	switch e.Op {
	case OpTranscribe:
		return target == ErrTranscriptionService
	case OpSynthesize:
		return target == ErrSynthesis
	}
	return false
}

func newServiceError(op string, cause FailureCause, status int, err error) *ServiceError {
	return &ServiceError{Op: op, Cause: cause, StatusCode: status, Err: err}
}

// CauseOf returns the failure cause of a speech error, or "" if err is not one
func CauseOf(err error) FailureCause {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Cause
	}
	return ""
}
