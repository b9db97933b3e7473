package audio

import (
	"bytes"
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func box(boxType string, payload []byte) []byte {
	out := make([]byte, 8, 8+len(payload))
	binary.BigEndian.PutUint32(out, uint32(8+len(payload)))
	copy(out[4:], boxType)
	return append(out, payload...)
}

// m4aFile builds an ftyp box followed by a moov box holding a version 0 mvhd
func m4aFile(timescale, duration uint32) []byte {
	ftyp := []byte("M4A \x00\x00\x00\x00isom")

	mvhd := make([]byte, 100)
	// version and flags stay zero; creation and modification times stay zero
	binary.BigEndian.PutUint32(mvhd[12:], timescale)
	binary.BigEndian.PutUint32(mvhd[16:], duration)
	binary.BigEndian.PutUint32(mvhd[20:], 0x00010000) // rate 1.0
	binary.BigEndian.PutUint16(mvhd[24:], 0x0100)     // volume 1.0
	binary.BigEndian.PutUint32(mvhd[96:], 2)          // next track id

	var buf bytes.Buffer
	buf.Write(box("ftyp", ftyp))
	buf.Write(box("moov", box("mvhd", mvhd)))
	return buf.Bytes()
}

func TestDuration_M4A(t *testing.T) {
	got, err := Duration(bytes.NewReader(m4aFile(44100, 44100*42)), FormatM4A)
	require.NoError(t, err)
	assert.InDelta(t, 42.0, got, 0.001)

	got, err = Duration(bytes.NewReader(m4aFile(1000, 2500)), FormatMP4)
	require.NoError(t, err)
	assert.InDelta(t, 2.5, got, 0.001)

	ftypOnly := box("ftyp", []byte("M4A \x00\x00\x00\x00isom"))
	_, err = Duration(bytes.NewReader(ftypOnly), FormatM4A)
	assert.Error(t, err)
}

// flacFile builds a signature plus a single STREAMINFO metadata block
func flacFile(sampleRate uint32, totalSamples uint64) []byte {
	info := make([]byte, 34)
	binary.BigEndian.PutUint16(info[0:], 4096) // min block size
	binary.BigEndian.PutUint16(info[2:], 4096) // max block size
	// frame sizes stay unknown (zero)
	packed := uint64(sampleRate)<<44 | uint64(0)<<41 | uint64(15)<<36 | totalSamples
	binary.BigEndian.PutUint64(info[10:], packed)

	var buf bytes.Buffer
	buf.WriteString("fLaC")
	buf.Write([]byte{0x80, 0x00, 0x00, 34}) // last block, type STREAMINFO
	buf.Write(info)
	return buf.Bytes()
}

func TestDuration_FLAC(t *testing.T) {
	got, err := Duration(bytes.NewReader(flacFile(16000, 16000*3)), FormatFLAC)
	require.NoError(t, err)
	assert.InDelta(t, 3.0, got, 0.001)

	_, err = Duration(bytes.NewReader(flacFile(16000, 0)), FormatFLAC)
	assert.Error(t, err)
}

func oggPageBytes(granule int64, serial, seq uint32, packet []byte) []byte {
	var lacing []byte
	n := len(packet)
	for n >= 255 {
		lacing = append(lacing, 255)
		n -= 255
	}
	lacing = append(lacing, byte(n))

	header := make([]byte, oggHeaderSize)
	copy(header, oggMagic)
	binary.LittleEndian.PutUint64(header[6:], uint64(granule))
	binary.LittleEndian.PutUint32(header[14:], serial)
	binary.LittleEndian.PutUint32(header[18:], seq)
	header[26] = byte(len(lacing))

	out := append(header, lacing...)
	return append(out, packet...)
}

func vorbisIDHeader(rate uint32) []byte {
	p := make([]byte, 30)
	copy(p, "\x01vorbis")
	p[11] = 1
	binary.LittleEndian.PutUint32(p[12:], rate)
	return p
}

func opusHead(preSkip uint16) []byte {
	p := make([]byte, 19)
	copy(p, "OpusHead")
	p[8] = 1
	p[9] = 1
	binary.LittleEndian.PutUint16(p[10:], preSkip)
	binary.LittleEndian.PutUint32(p[12:], 16000)
	return p
}

func TestDuration_OggVorbis(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(oggPageBytes(0, 7, 0, vorbisIDHeader(22050)))
	buf.Write(oggPageBytes(-1, 7, 1, make([]byte, 600)))
	buf.Write(oggPageBytes(22050*4, 7, 2, make([]byte, 300)))
	buf.Write(oggPageBytes(22050*10, 99, 0, make([]byte, 10))) // other logical stream

	got, err := Duration(bytes.NewReader(buf.Bytes()), FormatOGG)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, got, 0.001)
}

func TestDuration_OggOpus(t *testing.T) {
	var buf bytes.Buffer
	buf.Write(oggPageBytes(0, 1, 0, opusHead(312)))
	buf.Write(oggPageBytes(48000*2+312, 1, 1, make([]byte, 100)))
	buf.WriteString("junk")

	got, err := Duration(bytes.NewReader(buf.Bytes()), FormatOGG)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, got, 0.001)
}

func TestDuration_OggUnknownCodec(t *testing.T) {
	data := oggPageBytes(0, 1, 0, []byte("\x7fFLAC-in-ogg-header"))
	_, err := Duration(bytes.NewReader(data), FormatOGG)
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
