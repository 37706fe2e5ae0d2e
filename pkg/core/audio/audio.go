// Package audio wraps platform microphone capture and playback behind two
// small surfaces: a Recorder that produces one encoded Artifact per turn,
// and a Player for single-clip playback.
package audio

import (
	"context"
	"io"
)

const (
	// ArtifactMediaType is the fixed encoding every capture is tagged with.
	ArtifactMediaType = "audio/webm"
	// ArtifactFilename is the multipart filename the backend expects.
	ArtifactFilename = "voice.webm"
)

// Artifact is the finalized, ready-to-transmit encoded audio for one turn.
type Artifact struct {
	Data      []byte
	MediaType string
	Filename  string
}

// Empty reports whether the capture produced no audio at all.
func (a Artifact) Empty() bool {
	return len(a.Data) == 0
}

// Device is a source of encoded audio. Open acquires the underlying capture
// device; the returned stream yields encoded bytes until closed. Open fails
// with a permission_denied or device_unavailable error when the platform
// refuses or lacks the capability.
type Device interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}
