// Package session owns the interview state machine: whether a session is
// active, whether a recording or a turn submission is in flight, and the
// ordered transcript. It serializes voice turns so at most one artifact is
// ever being recorded or awaiting a response per session.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/voxhire/voxhire-go/pkg/core/audio"
	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// Phase is the coarse lifecycle state of a session.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseActive
	PhaseEnded
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseActive:
		return "active"
	case PhaseEnded:
		return "ended"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Speaker identifies who produced a transcript line.
type Speaker string

const (
	SpeakerAI   Speaker = "AI"
	SpeakerUser Speaker = "User"
)

// Line is one transcript entry.
type Line struct {
	Speaker Speaker
	Text    string
}

// userTurnPlaceholder is appended for the user's side of a turn; the client
// never sees its own transcription, only the AI's reply.
const userTurnPlaceholder = "(voice response)"

// Controller gate errors.
var (
	ErrAlreadyStarted  = errors.New("session: interview already started")
	ErrNotActive       = errors.New("session: no active interview")
	ErrSessionEnded    = errors.New("session: interview has ended")
	ErrRecordingActive = errors.New("session: a recording is in progress")
	ErrNotRecording    = errors.New("session: no recording in progress")
	ErrTurnInFlight    = errors.New("session: a turn is still being processed")
	ErrLastQuestion    = errors.New("session: the interviewer has asked the last question")
)

// API is the slice of the backend the controller drives.
type API interface {
	Start(ctx context.Context) (*types.StartResult, error)
	SubmitTurn(ctx context.Context, artifact audio.Artifact) (*types.TurnResult, error)
	End(ctx context.Context) (*types.InterviewResult, error)

	// ResolveAudioURL makes a possibly-relative audio URL playable.
	ResolveAudioURL(raw string) string
}

// Recorder produces one capture per turn.
type Recorder interface {
	Begin(ctx context.Context) (Capture, error)
}

// Capture finalizes a single recording into an artifact, releasing the
// device on every path.
type Capture interface {
	Stop() (audio.Artifact, error)
}

// Player plays an audio clip from a URL. Implementations play at most one
// clip at a time.
type Player interface {
	Play(ctx context.Context, url string) error
}

// Dependencies wires a Controller.
type Dependencies struct {
	API      API
	Recorder Recorder
	Player   Player // optional; nil disables playback
	Logger   *slog.Logger
	Now      func() time.Time
}

// Controller is the interview session state machine. Its methods are safe
// for concurrent use; gate checks and transcript appends are serialized so
// two turns can never interleave.
type Controller struct {
	api      API
	recorder Recorder
	player   Player
	logger   *slog.Logger
	now      func() time.Time

	mu           sync.Mutex
	phase        Phase
	recording    bool
	processing   bool
	lastQuestion bool
	transcript   []Line
	capture      Capture
	startedAt    time.Time
}

// New creates a Controller in the idle phase.
func New(deps Dependencies) (*Controller, error) {
	if deps.API == nil {
		return nil, errors.New("session: api is required")
	}
	if deps.Recorder == nil {
		return nil, errors.New("session: recorder is required")
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &Controller{
		api:      deps.API,
		recorder: deps.Recorder,
		player:   deps.Player,
		logger:   deps.Logger,
		now:      deps.Now,
	}, nil
}

// Start opens a session. Valid only from the idle phase. On failure the
// controller reverts to idle with no transcript lines; the session never
// half-starts.
func (c *Controller) Start(ctx context.Context) error {
	c.mu.Lock()
	switch c.phase {
	case PhaseEnded:
		c.mu.Unlock()
		return ErrSessionEnded
	case PhaseActive:
		c.mu.Unlock()
		return ErrAlreadyStarted
	}
	// Occupy the session and gate other operations for the duration of the
	// start round-trip.
	c.phase = PhaseActive
	c.processing = true
	c.startedAt = c.now()
	c.mu.Unlock()

	res, err := c.api.Start(ctx)

	c.mu.Lock()
	c.processing = false
	if err != nil {
		c.phase = PhaseIdle
		c.mu.Unlock()
		return fmt.Errorf("start interview: %w", err)
	}
	var playURL string
	if res != nil {
		if res.Transcript != "" {
			c.transcript = append(c.transcript, Line{Speaker: SpeakerAI, Text: res.Transcript})
		}
		playURL = res.AudioURL
	}
	c.mu.Unlock()

	if playURL != "" {
		c.play(ctx, playURL)
	}
	return nil
}

// BeginTurn acquires the microphone and starts buffering the user's answer.
// Rejected, with no device access attempted, while a recording or a turn
// submission is in flight or after the last question.
func (c *Controller) BeginTurn(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.gateLocked(); err != nil {
		return err
	}
	if c.lastQuestion {
		return ErrLastQuestion
	}

	capture, err := c.recorder.Begin(ctx)
	if err != nil {
		// Permission denial or a missing device leaves state untouched.
		return fmt.Errorf("begin turn: %w", err)
	}
	c.capture = capture
	c.recording = true
	return nil
}

// EndTurn finalizes the recording and submits it as one voice turn. The
// microphone is released on every path. A submission failure drops the turn:
// the session stays active, no transcript lines are added, and no retry is
// attempted.
func (c *Controller) EndTurn(ctx context.Context) error {
	c.mu.Lock()
	if c.phase != PhaseActive {
		err := ErrNotActive
		if c.phase == PhaseEnded {
			err = ErrSessionEnded
		}
		c.mu.Unlock()
		return err
	}
	if !c.recording {
		c.mu.Unlock()
		return ErrNotRecording
	}

	capture := c.capture
	c.capture = nil
	c.recording = false
	artifact, err := capture.Stop()
	if err != nil {
		c.mu.Unlock()
		return fmt.Errorf("finalize recording: %w", err)
	}
	c.processing = true
	c.mu.Unlock()

	res, submitErr := c.api.SubmitTurn(ctx, artifact)

	c.mu.Lock()
	c.processing = false
	if submitErr != nil {
		c.mu.Unlock()
		c.logger.Warn("voice turn dropped", "error", submitErr)
		return fmt.Errorf("submit turn: %w", submitErr)
	}
	c.transcript = append(c.transcript,
		Line{Speaker: SpeakerUser, Text: userTurnPlaceholder},
		Line{Speaker: SpeakerAI, Text: res.Transcript},
	)
	c.lastQuestion = res.IsLastQuestion
	playURL := res.AudioURL
	c.mu.Unlock()

	if playURL != "" {
		c.play(ctx, playURL)
	}
	return nil
}

// End closes the session and returns the evaluation. Early termination is
// permitted, but not while a recording or a turn submission is in flight:
// an in-flight turn's response must never race the final evaluation.
func (c *Controller) End(ctx context.Context) (*types.InterviewResult, error) {
	c.mu.Lock()
	if err := c.gateLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	c.processing = true
	c.mu.Unlock()

	result, err := c.api.End(ctx)

	c.mu.Lock()
	c.processing = false
	if err != nil {
		// The session stays active; no partial result is fabricated.
		c.mu.Unlock()
		return nil, fmt.Errorf("end interview: %w", err)
	}
	c.phase = PhaseEnded
	c.mu.Unlock()
	return result, nil
}

func (c *Controller) gateLocked() error {
	if c.phase == PhaseEnded {
		return ErrSessionEnded
	}
	if c.phase != PhaseActive {
		return ErrNotActive
	}
	if c.recording {
		return ErrRecordingActive
	}
	if c.processing {
		return ErrTurnInFlight
	}
	return nil
}

func (c *Controller) play(ctx context.Context, raw string) {
	if c.player == nil {
		return
	}
	url := c.api.ResolveAudioURL(raw)
	if err := c.player.Play(ctx, url); err != nil {
		// Silent audio is not a session failure.
		c.logger.Warn("playback failed", "url", url, "error", err)
	}
}

// State is a consistent snapshot of the controller.
type State struct {
	Phase        Phase
	Recording    bool
	Processing   bool
	LastQuestion bool
	StartedAt    time.Time
	Transcript   []Line
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	lines := make([]Line, len(c.transcript))
	copy(lines, c.transcript)
	return State{
		Phase:        c.phase,
		Recording:    c.recording,
		Processing:   c.processing,
		LastQuestion: c.lastQuestion,
		StartedAt:    c.startedAt,
		Transcript:   lines,
	}
}
