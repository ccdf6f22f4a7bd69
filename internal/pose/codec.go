package pose

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// maxLineBytes bounds a single JSON line; a 33-landmark frame is well under 8KB.
const maxLineBytes = 1 << 20

// FrameReader decodes a JSON Lines stream of Frames, one per line.
// Blank lines and lines starting with '#' are skipped.
type FrameReader struct {
	scan *bufio.Scanner
	line int
}

// NewFrameReader returns a reader over r.
func NewFrameReader(r io.Reader) *FrameReader {
	scan := bufio.NewScanner(r)
	scan.Buffer(make([]byte, 64*1024), maxLineBytes)
	return &FrameReader{scan: scan}
}

// Next returns the next frame, or io.EOF once the stream is exhausted.
func (fr *FrameReader) Next() (Frame, error) {
	for fr.scan.Scan() {
		fr.line++
		text := strings.TrimSpace(fr.scan.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		var f Frame
		if err := json.Unmarshal([]byte(text), &f); err != nil {
			return Frame{}, fmt.Errorf("line %d: failed to decode frame: %w", fr.line, err)
		}
		return f, nil
	}
	if err := fr.scan.Err(); err != nil {
		return Frame{}, fmt.Errorf("failed to scan frames: %w", err)
	}
	return Frame{}, io.EOF
}

// ReadAll decodes every frame in r.
func ReadAll(r io.Reader) ([]Frame, error) {
	fr := NewFrameReader(r)
	var frames []Frame
	for {
		f, err := fr.Next()
		if err == io.EOF {
			return frames, nil
		}
		if err != nil {
			return nil, err
		}
		frames = append(frames, f)
	}
}

// WriteFrames encodes frames to w as JSON Lines.
func WriteFrames(w io.Writer, frames []Frame) error {
	enc := json.NewEncoder(w)
	for i, f := range frames {
		if err := enc.Encode(f); err != nil {
			return fmt.Errorf("failed to encode frame %d: %w", i, err)
		}
	}
	return nil
}
