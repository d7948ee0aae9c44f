// Package decode turns compressed or container audio files into pcm.Asset
// values ready to be mixed.
//
// Supported containers are WAV, MP3, Ogg Vorbis and FLAC. Decoding is done
// once, at load time; the mixer only ever sees fully decoded 16-bit samples.
// Sources must already match the output sample rate. A mono source may feed
// a stereo output, in which case it is duplicated on both channels.
package decode

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"

	"github.com/haivivi/clacker/pkg/audio/pcm"
)

var (
	// ErrMissingAsset is returned by File when the file does not exist.
	ErrMissingAsset = errors.New("decode: missing asset")
	// ErrUnsupported is returned for an unknown file extension.
	ErrUnsupported = errors.New("decode: unsupported file type")
	// ErrFormatMismatch is returned when the source sample rate or channel
	// layout cannot be mapped onto the requested format.
	ErrFormatMismatch = errors.New("decode: format mismatch")
)

// Extensions lists the file extensions understood by File and Reader.
var Extensions = []string{".wav", ".mp3", ".ogg", ".flac"}

// Supported reports whether path has an extension File can decode.
func Supported(path string) bool {
	return slices.Contains(Extensions, strings.ToLower(filepath.Ext(path)))
}

// File decodes the audio file at path into an Asset of format f. The asset is
// named after path.
func File(path string, f pcm.Format) (*pcm.Asset, error) {
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrMissingAsset, path)
		}
		return nil, fmt.Errorf("decode: %w", err)
	}
	defer file.Close()
	return decode(path, file, filepath.Ext(path), f)
}

// Reader decodes audio read from r. ext selects the decoder, e.g. ".wav".
func Reader(r io.Reader, ext string, f pcm.Format) (*pcm.Asset, error) {
	return decode("reader"+ext, r, ext, f)
}

func decode(name string, r io.Reader, ext string, f pcm.Format) (*pcm.Asset, error) {
	if !f.Valid() {
		return nil, fmt.Errorf("decode: %s: invalid output format", name)
	}

	var (
		s   beep.StreamSeekCloser
		src beep.Format
		err error
	)
	switch strings.ToLower(ext) {
	case ".wav":
		s, src, err = wav.Decode(r)
	case ".mp3":
		s, src, err = mp3.Decode(readCloser(r))
	case ".ogg":
		s, src, err = vorbis.Decode(readCloser(r))
	case ".flac":
		s, src, err = flac.Decode(r)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupported, name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode: %s: %w", name, err)
	}
	defer s.Close()

	if int(src.SampleRate) != f.SampleRate() {
		return nil, fmt.Errorf("%w: %s is %d Hz, output is %d Hz",
			ErrFormatMismatch, name, int(src.SampleRate), f.SampleRate())
	}
	if src.NumChannels > f.Channels() {
		return nil, fmt.Errorf("%w: %s has %d channels, output has %d",
			ErrFormatMismatch, name, src.NumChannels, f.Channels())
	}

	samples, err := readAll(s, f.Channels())
	if err != nil {
		return nil, fmt.Errorf("decode: %s: %w", name, err)
	}
	return pcm.NewAsset(name, f, samples)
}

// readAll drains s into interleaved int16 samples with the given channel
// count. beep always streams stereo frames; mono sources carry the same value
// on both sides, so mono output takes the left channel.
func readAll(s beep.StreamSeekCloser, channels int) ([]int16, error) {
	var samples []int16
	if n := s.Len(); n > 0 {
		samples = make([]int16, 0, n*channels)
	}
	buf := make([][2]float64, 512)
	for {
		n, ok := s.Stream(buf)
		for _, fr := range buf[:n] {
			samples = append(samples, toInt16(fr[0]))
			if channels == 2 {
				samples = append(samples, toInt16(fr[1]))
			}
		}
		if !ok {
			break
		}
	}
	if err := s.Err(); err != nil {
		return nil, err
	}
	return samples, nil
}

// toInt16 maps a [-1, 1] float sample onto the int16 range with rounding and
// saturation.
func toInt16(v float64) int16 {
	x := math.Round(v * 32768)
	switch {
	case x > math.MaxInt16:
		return math.MaxInt16
	case x < math.MinInt16:
		return math.MinInt16
	case math.IsNaN(x):
		return 0
	}
	return int16(x)
}

func readCloser(r io.Reader) io.ReadCloser {
	if rc, ok := r.(io.ReadCloser); ok {
		return rc
	}
	return io.NopCloser(r)
}
