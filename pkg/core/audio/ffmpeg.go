package audio

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"strings"

	"github.com/voxhire/voxhire-go/pkg/core"
)

const captureSampleRateHz = 16000

// FFmpegDevice captures the default microphone through an ffmpeg subprocess
// emitting webm/opus on stdout.
type FFmpegDevice struct {
	// Input overrides the platform default capture source
	// (e.g. ":0" on darwin, a pulse source name on linux).
	Input string
}

// NewFFmpegDevice creates a device using the platform default microphone.
func NewFFmpegDevice() *FFmpegDevice {
	return &FFmpegDevice{}
}

// Open starts the capture subprocess. It fails with device_unavailable when
// ffmpeg is missing or the platform has no capture backend.
func (d *FFmpegDevice) Open(ctx context.Context) (io.ReadCloser, error) {
	if _, err := exec.LookPath("ffmpeg"); err != nil {
		return nil, core.NewDeviceUnavailableError("ffmpeg is required for microphone capture (install ffmpeg and ensure it is in PATH)", err)
	}
	args, err := captureArgs(runtime.GOOS, d.Input)
	if err != nil {
		return nil, core.NewDeviceUnavailableError(err.Error(), err)
	}

	cmd := exec.Command("ffmpeg", args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return nil, core.NewDeviceUnavailableError("open ffmpeg stdout", err)
	}
	var stderr bytes.Buffer
	cmd.Stderr = &limitedWriter{w: &stderr, n: 4096}
	if err := cmd.Start(); err != nil {
		return nil, core.NewDeviceUnavailableError("start ffmpeg mic capture", err)
	}
	_ = ctx // capture lifetime is owned by Close, not the context
	return &ffmpegStream{cmd: cmd, stdout: stdout, stderr: &stderr}, nil
}

func captureArgs(goos, input string) ([]string, error) {
	encode := []string{
		"-ac", "1", "-ar", fmt.Sprintf("%d", captureSampleRateHz),
		"-c:a", "libopus", "-f", "webm", "-",
	}
	switch goos {
	case "darwin":
		if input == "" {
			input = ":0"
		}
		return append([]string{
			"-hide_banner", "-loglevel", "error",
			"-f", "avfoundation", "-i", input,
		}, encode...), nil
	case "linux":
		if input == "" {
			input = "default"
		}
		return append([]string{
			"-hide_banner", "-loglevel", "error",
			"-f", "pulse", "-i", input,
		}, encode...), nil
	default:
		return nil, fmt.Errorf("microphone capture is not implemented for %s; supported platforms: darwin, linux", goos)
	}
}

type ffmpegStream struct {
	cmd    *exec.Cmd
	stdout io.ReadCloser
	stderr *bytes.Buffer
}

func (s *ffmpegStream) Read(p []byte) (int, error) {
	n, err := s.stdout.Read(p)
	if err != nil && !errors.Is(err, io.EOF) {
		return n, err
	}
	if err != nil && n == 0 {
		// The process died before producing audio; surface a denied
		// microphone distinctly from an ordinary end of stream.
		if msg := s.stderr.String(); looksLikePermissionFailure(msg) {
			return 0, core.NewPermissionDeniedError("microphone access denied: " + strings.TrimSpace(msg))
		}
	}
	return n, err
}

func (s *ffmpegStream) Close() error {
	if s.cmd != nil && s.cmd.Process != nil {
		_ = s.cmd.Process.Kill()
		_ = s.cmd.Wait()
	}
	return s.stdout.Close()
}

func looksLikePermissionFailure(stderr string) bool {
	lower := strings.ToLower(stderr)
	return strings.Contains(lower, "permission denied") ||
		strings.Contains(lower, "operation not permitted") ||
		strings.Contains(lower, "cannot open audio device")
}

type limitedWriter struct {
	w io.Writer
	n int
}

func (l *limitedWriter) Write(p []byte) (int, error) {
	if l.n <= 0 {
		return len(p), nil
	}
	if len(p) > l.n {
		_, err := l.w.Write(p[:l.n])
		l.n = 0
		return len(p), err
	}
	l.n -= len(p)
	return l.w.Write(p)
}
