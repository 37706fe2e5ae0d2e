package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/voxhire/voxhire-go/pkg/core"
)

// ErrCaptureActive is returned by Begin while a previous capture is still
// open. The microphone is exclusively owned by at most one Capture at a time.
var ErrCaptureActive = errors.New("audio: a capture is already active")

// Recorder acquires the capture device and buffers audio for one turn at a
// time.
type Recorder struct {
	device Device
	logger *slog.Logger

	mu     sync.Mutex
	active *Capture
}

// NewRecorder creates a recorder over the given device.
func NewRecorder(device Device, logger *slog.Logger) *Recorder {
	if logger == nil {
		logger = slog.Default()
	}
	return &Recorder{device: device, logger: logger}
}

// Begin acquires the device and starts buffering captured audio. It refuses
// to open a second capture while one is active.
func (r *Recorder) Begin(ctx context.Context) (*Capture, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.active != nil {
		return nil, ErrCaptureActive
	}

	stream, err := r.device.Open(ctx)
	if err != nil {
		var coreErr *core.Error
		if errors.As(err, &coreErr) {
			return nil, err
		}
		return nil, core.NewDeviceUnavailableError("failed to open capture device", err)
	}

	c := &Capture{
		recorder: r,
		stream:   stream,
		logger:   r.logger,
		done:     make(chan struct{}),
	}
	go c.drain()
	r.active = c
	return c, nil
}

func (r *Recorder) release(c *Capture) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.active == c {
		r.active = nil
	}
}

// Capture is a single in-progress recording. It accumulates encoded chunks
// in arrival order with no upper bound on duration; bounding turn length is
// the caller's affordance, not enforced here.
type Capture struct {
	recorder *Recorder
	stream   io.ReadCloser
	logger   *slog.Logger

	mu      sync.Mutex
	chunks  [][]byte
	readErr error

	stopOnce sync.Once
	done     chan struct{}
	artifact Artifact
	stopErr  error
}

func (c *Capture) drain() {
	defer close(c.done)
	buf := make([]byte, 4096)
	for {
		n, err := c.stream.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			c.mu.Lock()
			c.chunks = append(c.chunks, chunk)
			c.mu.Unlock()
		}
		if err != nil {
			if !errors.Is(err, io.EOF) && !errors.Is(err, io.ErrClosedPipe) && !errors.Is(err, os.ErrClosed) {
				c.mu.Lock()
				c.readErr = err
				c.mu.Unlock()
			}
			return
		}
	}
}

// Stop closes the device stream, waits for buffering to finish, and
// concatenates the chunks into one Artifact. The device is released on every
// path, including mid-capture read failures. A capture that received zero
// chunks yields a valid empty artifact, not an error — unless the device
// itself refused (permission denied or unavailable) before producing any
// audio; that refusal is returned so the turn never proceeds on silence the
// user did not record. Stop is idempotent.
func (c *Capture) Stop() (Artifact, error) {
	c.stopOnce.Do(func() {
		if err := c.stream.Close(); err != nil {
			c.logger.Debug("capture stream close failed", "error", err)
		}
		<-c.done
		c.recorder.release(c)

		c.mu.Lock()
		defer c.mu.Unlock()
		if c.readErr != nil {
			if len(c.chunks) == 0 && isDeviceRefusal(c.readErr) {
				c.stopErr = c.readErr
				return
			}
			// The chunks buffered before the failure are still the turn's
			// audio; a dead device mid-utterance is not a lost recording.
			c.logger.Warn("capture stream ended with error", "error", c.readErr)
		}
		var buf bytes.Buffer
		for _, chunk := range c.chunks {
			buf.Write(chunk)
		}
		c.chunks = nil
		c.artifact = Artifact{
			Data:      buf.Bytes(),
			MediaType: ArtifactMediaType,
			Filename:  ArtifactFilename,
		}
	})
	return c.artifact, c.stopErr
}

func isDeviceRefusal(err error) bool {
	return core.IsType(err, core.ErrPermissionDenied) ||
		core.IsType(err, core.ErrDeviceUnavailable)
}

var _ fmt.Stringer = Artifact{}

// String describes the artifact for logs without dumping audio bytes.
func (a Artifact) String() string {
	return fmt.Sprintf("%s %s (%d bytes)", a.Filename, a.MediaType, len(a.Data))
}
