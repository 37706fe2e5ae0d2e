package session

import (
	"context"

	"github.com/voxhire/voxhire-go/pkg/core/audio"
)

// AudioRecorder adapts an *audio.Recorder to the Recorder interface.
type AudioRecorder struct {
	Recorder *audio.Recorder
}

func (a AudioRecorder) Begin(ctx context.Context) (Capture, error) {
	capture, err := a.Recorder.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return capture, nil
}
