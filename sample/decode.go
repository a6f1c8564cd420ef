package sample

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/wav"
)

// Decode reads a whole sample file into memory. The decoder is picked by
// extension: .wav, .flac or .mp3.
func Decode(path string) (*beep.Buffer, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("open sample %s: %w", path, err)
	}

	var (
		stream beep.StreamSeekCloser
		format beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".wav":
		stream, format, err = wav.Decode(f)
	case ".flac":
		stream, format, err = flac.Decode(f)
	case ".mp3":
		// mp3.Decode takes ownership of the file
		stream, format, err = mp3.Decode(f)
	default:
		f.Close()
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	defer closeStream(stream, f)

	buf := beep.NewBuffer(format)
	buf.Append(stream)
	if err := stream.Err(); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidFormat, path, err)
	}
	return buf, nil
}

func closeStream(s beep.StreamSeekCloser, f io.Closer) {
	s.Close()
	f.Close()
}

// Resampled copies buf into a new buffer at rate. It returns buf unchanged
// when the rates already match.
func Resampled(buf *beep.Buffer, rate beep.SampleRate) *beep.Buffer {
	old := buf.Format()
	if old.SampleRate == rate {
		return buf
	}
	format := old
	format.SampleRate = rate
	out := beep.NewBuffer(format)
	out.Append(beep.Resample(4, old.SampleRate, rate, buf.Streamer(0, buf.Len())))
	return out
}
