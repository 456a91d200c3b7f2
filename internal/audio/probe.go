// Package audio inspects synthesized audio for reporting.
package audio

import (
	"bytes"
	"errors"
	"fmt"
	"time"

	"github.com/go-audio/wav"
)

// ErrUnsupported is returned for formats whose duration cannot be probed.
var ErrUnsupported = errors.New("duration probing not supported for format")

// Duration returns the playback length of data encoded as format. Only WAV
// is probed; MP3 frames are left to the vendor.
func Duration(format string, data []byte) (time.Duration, error) {
	switch format {
	case "wav":
		return WAVDuration(data)
	default:
		return 0, fmt.Errorf("%w %q", ErrUnsupported, format)
	}
}

// WAVDuration parses the RIFF headers in data and returns the clip length.
func WAVDuration(data []byte) (time.Duration, error) {
	decoder := wav.NewDecoder(bytes.NewReader(data))
	if !decoder.IsValidFile() {
		if err := decoder.Err(); err != nil {
			return 0, fmt.Errorf("invalid wav: %w", err)
		}
		return 0, errors.New("invalid wav")
	}
	duration, err := decoder.Duration()
	if err != nil {
		return 0, fmt.Errorf("wav duration: %w", err)
	}
	return duration, nil
}
