package audio

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"github.com/voxhire/voxhire-go/pkg/core"
)

type fakeDevice struct {
	openErr error
	opens   int
	lastW   *io.PipeWriter
}

func (d *fakeDevice) Open(ctx context.Context) (io.ReadCloser, error) {
	d.opens++
	if d.openErr != nil {
		return nil, d.openErr
	}
	r, w := io.Pipe()
	d.lastW = w
	return r, nil
}

func TestCaptureConcatenatesChunksInOrder(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	rec := NewRecorder(dev, nil)

	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	for _, chunk := range []string{"first-", "second-", "third"} {
		if _, err := dev.lastW.Write([]byte(chunk)); err != nil {
			t.Fatalf("write chunk: %v", err)
		}
	}
	_ = dev.lastW.Close()

	artifact, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if got, want := string(artifact.Data), "first-second-third"; got != want {
		t.Errorf("artifact data = %q, want %q", got, want)
	}
	if artifact.MediaType != ArtifactMediaType {
		t.Errorf("media type = %q, want %q", artifact.MediaType, ArtifactMediaType)
	}
	if artifact.Filename != ArtifactFilename {
		t.Errorf("filename = %q, want %q", artifact.Filename, ArtifactFilename)
	}
}

func TestStopWithZeroChunksReturnsEmptyArtifact(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	rec := NewRecorder(dev, nil)

	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	artifact, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() on empty capture should not error, got %v", err)
	}
	if !artifact.Empty() {
		t.Errorf("artifact should be empty, got %d bytes", len(artifact.Data))
	}
	if artifact.MediaType != ArtifactMediaType {
		t.Errorf("empty artifact still carries the encoding tag, got %q", artifact.MediaType)
	}
}

func TestSecondBeginWhileActiveIsRefused(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	rec := NewRecorder(dev, nil)

	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := rec.Begin(context.Background()); !errors.Is(err, ErrCaptureActive) {
		t.Fatalf("second Begin() error = %v, want ErrCaptureActive", err)
	}
	if dev.opens != 1 {
		t.Fatalf("device opened %d times, want 1", dev.opens)
	}

	if _, err := capture.Stop(); err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if _, err := rec.Begin(context.Background()); err != nil {
		t.Fatalf("Begin() after Stop should succeed, got %v", err)
	}
}

func TestBeginWrapsDeviceFailure(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(&fakeDevice{openErr: errors.New("no such device")}, nil)
	_, err := rec.Begin(context.Background())
	if !core.IsType(err, core.ErrDeviceUnavailable) {
		t.Fatalf("error = %v, want device_unavailable", err)
	}

	denied := core.NewPermissionDeniedError("microphone access denied")
	rec = NewRecorder(&fakeDevice{openErr: denied}, nil)
	_, err = rec.Begin(context.Background())
	if !core.IsType(err, core.ErrPermissionDenied) {
		t.Fatalf("canonical device errors must pass through, got %v", err)
	}
}

type failingStream struct {
	data []byte
	err  error
	read bool
}

func (s *failingStream) Read(p []byte) (int, error) {
	if !s.read && len(s.data) > 0 {
		s.read = true
		n := copy(p, s.data)
		return n, nil
	}
	return 0, s.err
}

func (s *failingStream) Close() error { return nil }

type streamDevice struct {
	readErr error
	data    []byte
}

func (d *streamDevice) Open(ctx context.Context) (io.ReadCloser, error) {
	return &failingStream{data: d.data, err: d.readErr}, nil
}

func TestStopAfterReadErrorStillReleasesAndReturnsBufferedAudio(t *testing.T) {
	t.Parallel()

	rec := NewRecorder(&streamDevice{data: []byte("partial"), readErr: errors.New("device wedged")}, nil)
	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	// Stop waits for the drain to finish, so the chunk read before the
	// failure is always collected.
	artifact, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	if !bytes.Equal(artifact.Data, []byte("partial")) {
		t.Errorf("artifact data = %q, want buffered prefix", artifact.Data)
	}

	// The recorder must not consider the failed capture still open.
	if _, err := rec.Begin(context.Background()); err != nil {
		t.Fatalf("Begin after failed capture error = %v", err)
	}
}

func TestStopSurfacesDeviceRefusalWhenNothingWasCaptured(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		readErr  error
		wantType core.ErrorType
	}{
		{"permission denied", core.NewPermissionDeniedError("microphone access denied"), core.ErrPermissionDenied},
		{"device unavailable", core.NewDeviceUnavailableError("capture backend gone", errors.New("gone")), core.ErrDeviceUnavailable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rec := NewRecorder(&streamDevice{readErr: tt.readErr}, nil)
			capture, err := rec.Begin(context.Background())
			if err != nil {
				t.Fatalf("Begin() error = %v", err)
			}

			artifact, err := capture.Stop()
			if !core.IsType(err, tt.wantType) {
				t.Fatalf("Stop() error = %v, want %s", err, tt.wantType)
			}
			if !artifact.Empty() {
				t.Errorf("no artifact may be fabricated, got %d bytes", len(artifact.Data))
			}

			// Repeated Stop keeps returning the refusal.
			if _, err := capture.Stop(); !core.IsType(err, tt.wantType) {
				t.Errorf("second Stop() error = %v, want %s", err, tt.wantType)
			}

			// The device is still released.
			if _, err := rec.Begin(context.Background()); err != nil {
				t.Fatalf("Begin after refused capture error = %v", err)
			}
		})
	}
}

func TestStopKeepsBufferedAudioOnMidUtteranceRefusal(t *testing.T) {
	t.Parallel()

	denied := core.NewPermissionDeniedError("microphone access revoked")
	rec := NewRecorder(&streamDevice{data: []byte("spoken"), readErr: denied}, nil)
	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}

	artifact, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v, audio captured before the refusal must survive", err)
	}
	if !bytes.Equal(artifact.Data, []byte("spoken")) {
		t.Errorf("artifact data = %q, want the buffered audio", artifact.Data)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	t.Parallel()

	dev := &fakeDevice{}
	rec := NewRecorder(dev, nil)
	capture, err := rec.Begin(context.Background())
	if err != nil {
		t.Fatalf("Begin() error = %v", err)
	}
	if _, err := dev.lastW.Write([]byte("once")); err != nil {
		t.Fatalf("write: %v", err)
	}
	_ = dev.lastW.Close()

	first, err := capture.Stop()
	if err != nil {
		t.Fatalf("Stop() error = %v", err)
	}
	second, err := capture.Stop()
	if err != nil {
		t.Fatalf("second Stop() error = %v", err)
	}
	if !bytes.Equal(first.Data, second.Data) {
		t.Errorf("repeated Stop returned different artifacts")
	}
}
