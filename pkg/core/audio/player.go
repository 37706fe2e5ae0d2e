package audio

import (
	"context"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/voxhire/voxhire-go/pkg/core"
)

// Player plays one audio clip at a time through an ffplay subprocess.
// Starting a new clip implicitly stops any prior one.
type Player struct {
	logger *slog.Logger

	mu  sync.Mutex
	cmd *exec.Cmd
}

// NewPlayer creates a player.
func NewPlayer(logger *slog.Logger) *Player {
	if logger == nil {
		logger = slog.Default()
	}
	return &Player{logger: logger}
}

// Play starts playback of the clip at url. Playback runs in the background;
// failures after startup are logged, never fatal.
func (p *Player) Play(ctx context.Context, url string) error {
	if _, err := exec.LookPath("ffplay"); err != nil {
		return core.NewDeviceUnavailableError("ffplay is required for playback (install ffmpeg/ffplay and ensure it is in PATH)", err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()

	cmd := exec.Command("ffplay", "-nodisp", "-autoexit", "-loglevel", "error", url)
	if err := cmd.Start(); err != nil {
		return core.NewDeviceUnavailableError("start ffplay", err)
	}
	p.cmd = cmd

	go func() {
		err := cmd.Wait()
		p.mu.Lock()
		if p.cmd == cmd {
			p.cmd = nil
		}
		p.mu.Unlock()
		if err != nil {
			// Unsupported format or a dead URL leaves audio silent.
			p.logger.Debug("playback ended with error", "url", url, "error", err)
		}
	}()
	return nil
}

// Stop halts any in-progress playback.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.stopLocked()
}

// Close releases the player. Equivalent to Stop.
func (p *Player) Close() error {
	p.Stop()
	return nil
}

func (p *Player) stopLocked() {
	if p.cmd != nil && p.cmd.Process != nil {
		_ = p.cmd.Process.Kill()
	}
	p.cmd = nil
}
