package audio

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/abema/go-mp4"
	"github.com/mewkiz/flac"
)

func mp4Duration(r io.ReadSeeker) (float64, error) {
	boxes, err := mp4.ExtractBoxWithPayload(r, nil, mp4.BoxPath{mp4.BoxTypeMoov(), mp4.BoxTypeMvhd()})
	if err != nil {
		return 0, fmt.Errorf("failed to read mp4 boxes: %w", err)
	}
	if len(boxes) == 0 {
		return 0, errors.New("mp4 file has no movie header")
	}

	mvhd, ok := boxes[0].Payload.(*mp4.Mvhd)
	if !ok {
		return 0, errors.New("unexpected mvhd payload")
	}
	if mvhd.Timescale == 0 {
		return 0, errors.New("mp4 movie header has zero timescale")
	}

	duration := uint64(mvhd.DurationV0)
	if mvhd.GetVersion() == 1 {
		duration = mvhd.DurationV1
	}
	return float64(duration) / float64(mvhd.Timescale), nil
}

func flacDuration(r io.Reader) (float64, error) {
	stream, err := flac.New(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read flac stream info: %w", err)
	}
	info := stream.Info
	if info == nil || info.SampleRate == 0 {
		return 0, errors.New("flac stream info has no sample rate")
	}
	// NSamples is 0 when the encoder did not know the length up front
	if info.NSamples == 0 {
		return 0, errors.New("flac stream info has unknown sample count")
	}
	return float64(info.NSamples) / float64(info.SampleRate), nil
}

const (
	oggHeaderSize = 27
	opusRate      = 48000
)

var oggMagic = []byte("OggS")

type oggPage struct {
	payload []byte
	granule int64
	serial  uint32
	end     int
}

func parseOggPage(data []byte, off int) (*oggPage, error) {
	if len(data)-off < oggHeaderSize || string(data[off:off+4]) != string(oggMagic) {
		return nil, errors.New("invalid ogg page header")
	}
	segments := int(data[off+26])
	start := off + oggHeaderSize + segments
	if start > len(data) {
		return nil, errors.New("truncated ogg segment table")
	}

	size := 0
	for _, lacing := range data[off+oggHeaderSize : start] {
		size += int(lacing)
	}
	if start+size > len(data) {
		return nil, errors.New("truncated ogg page")
	}

	return &oggPage{
		granule: int64(binary.LittleEndian.Uint64(data[off+6 : off+14])),
		serial:  binary.LittleEndian.Uint32(data[off+14 : off+18]),
		payload: data[start : start+size],
		end:     start + size,
	}, nil
}

// oggStreamRate reads the sample rate and pre-skip from a Vorbis or Opus identification header
func oggStreamRate(packet []byte) (rate int64, preSkip int64, err error) {
	switch {
	case len(packet) >= 16 && string(packet[:7]) == "\x01vorbis":
		return int64(binary.LittleEndian.Uint32(packet[12:16])), 0, nil
	case len(packet) >= 12 && string(packet[:8]) == "OpusHead":
		// Opus granule positions always count 48kHz samples
		return opusRate, int64(binary.LittleEndian.Uint16(packet[10:12])), nil
	}
	return 0, 0, fmt.Errorf("%w: ogg codec", ErrUnsupportedFormat)
}

func oggDuration(r io.Reader) (float64, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return 0, fmt.Errorf("failed to read ogg file: %w", err)
	}

	first, err := parseOggPage(data, 0)
	if err != nil {
		return 0, err
	}
	rate, preSkip, err := oggStreamRate(first.payload)
	if err != nil {
		return 0, err
	}
	if rate == 0 {
		return 0, errors.New("ogg stream has zero sample rate")
	}

	last := int64(-1)
	for off := 0; off < len(data); {
		page, err := parseOggPage(data, off)
		if err != nil {
			// trailing garbage after the final page
			break
		}
		// -1 marks a page on which no packet ends
		if page.serial == first.serial && page.granule >= 0 {
			last = page.granule
		}
		off = page.end
	}

	samples := last - preSkip
	if samples <= 0 {
		return 0, errors.New("ogg stream has no audio samples")
	}
	return float64(samples) / float64(rate), nil
}
