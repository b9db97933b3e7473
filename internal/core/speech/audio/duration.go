// Package audio measures the playback length of uploaded and synthesized audio.
package audio

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/tcolgate/mp3"
)

// Format is a lowercase container extension without the dot
type Format string

const (
	FormatMP3  Format = "mp3"
	FormatWAV  Format = "wav"
	FormatM4A  Format = "m4a"
	FormatOGG  Format = "ogg"
	FormatWEBM Format = "webm"
	FormatMP4  Format = "mp4"
	FormatMPEG Format = "mpeg"
	FormatMPGA Format = "mpga"
	FormatFLAC Format = "flac"
)

// ErrUnsupportedFormat is returned when a format's duration cannot be measured
var ErrUnsupportedFormat = errors.New("duration measurement not supported for format")

var contentTypes = map[Format]string{
	FormatMP3:  "audio/mpeg",
	FormatMPEG: "audio/mpeg",
	FormatMPGA: "audio/mpeg",
	FormatWAV:  "audio/wav",
	FormatM4A:  "audio/mp4",
	FormatMP4:  "audio/mp4",
	FormatOGG:  "audio/ogg",
	FormatWEBM: "audio/webm",
	FormatFLAC: "audio/flac",
}

// FormatFromFilename returns the lowercased extension of name
func FormatFromFilename(name string) Format {
	return Format(strings.TrimPrefix(strings.ToLower(filepath.Ext(name)), "."))
}

// IsSupported reports whether f is an accepted upload format
func IsSupported(f Format) bool {
	_, ok := contentTypes[f]
	return ok
}

// SupportedFormats lists accepted upload formats for error messages
func SupportedFormats() []string {
	return []string{"mp3", "wav", "m4a", "ogg", "webm", "mp4", "mpeg", "mpga", "flac"}
}

// ContentType returns the MIME type for f, defaulting to application/octet-stream
func ContentType(f Format) string {
	if ct, ok := contentTypes[f]; ok {
		return ct
	}
	return "application/octet-stream"
}

// FormatFromContentType maps a MIME type back to a container format
func FormatFromContentType(contentType string) Format {
	ct := strings.ToLower(strings.TrimSpace(strings.SplitN(contentType, ";", 2)[0]))
	switch ct {
	case "audio/mpeg", "audio/mp3":
		return FormatMP3
	case "audio/wav", "audio/x-wav", "audio/wave":
		return FormatWAV
	case "audio/mp4", "audio/m4a", "audio/x-m4a":
		return FormatM4A
	case "audio/ogg":
		return FormatOGG
	case "audio/webm":
		return FormatWEBM
	case "audio/flac", "audio/x-flac":
		return FormatFLAC
	}
	return ""
}

// Duration returns the playback length of r in seconds.
// WAV and FLAC are read from their headers, M4A/MP4 from the movie header box,
// Ogg from the last page's granule position, and MP3 by walking its frames.
// WebM recordings from browsers carry no duration element and return ErrUnsupportedFormat.
func Duration(r io.ReadSeeker, format Format) (float64, error) {
	switch format {
	case FormatWAV:
		return wavDuration(r)
	case FormatMP3, FormatMPEG, FormatMPGA:
		return mp3Duration(r)
	case FormatM4A, FormatMP4:
		return mp4Duration(r)
	case FormatFLAC:
		return flacDuration(r)
	case FormatOGG:
		return oggDuration(r)
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
}

func wavDuration(r io.ReadSeeker) (float64, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return 0, errors.New("invalid wav file")
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return 0, fmt.Errorf("failed to rewind wav file: %w", err)
	}
	d, err := wav.NewDecoder(r).Duration()
	if err != nil {
		return 0, fmt.Errorf("failed to read wav duration: %w", err)
	}
	return d.Seconds(), nil
}

func mp3Duration(r io.Reader) (float64, error) {
	dec := mp3.NewDecoder(r)
	var (
		frame   mp3.Frame
		skipped int
		total   float64
		frames  int
	)
	for {
		if err := dec.Decode(&frame, &skipped); err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			if frames > 0 {
				// trailing tag data after the last frame
				break
			}
			return 0, fmt.Errorf("failed to decode mp3 frame: %w", err)
		}
		total += frame.Duration().Seconds()
		frames++
	}
	if frames == 0 {
		return 0, errors.New("no mp3 frames found")
	}
	return total, nil
}
