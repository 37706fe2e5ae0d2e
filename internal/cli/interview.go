package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/voxhire/voxhire-go/pkg/core"
	"github.com/voxhire/voxhire-go/pkg/core/audio"
	"github.com/voxhire/voxhire-go/pkg/core/session"
	"github.com/voxhire/voxhire-go/pkg/core/types"
)

var interviewCmd = &cobra.Command{
	Use:   "interview",
	Short: "Run a live voice interview",
	Long: `Run a live voice interview in the terminal.

The session starts as soon as the command launches. Press space to begin
answering, space again to submit the answer, and E to end the interview
and receive the evaluation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client := newClient()

		// Distinguish "backend down" from an interview failure up front.
		if _, err := client.Health(cmd.Context()); err != nil {
			return fmt.Errorf("interview backend is not reachable at %s: %w", cfg.BaseURL, err)
		}

		recorder := audio.NewRecorder(&audio.FFmpegDevice{Input: cfg.AudioInput}, logger)
		var player session.Player
		if cfg.AudioEnabled {
			p := audio.NewPlayer(logger)
			defer p.Close()
			player = p
		}

		controller, err := session.New(session.Dependencies{
			API:      client.Interviews,
			Recorder: &session.AudioRecorder{Recorder: recorder},
			Player:   player,
			Logger:   logger,
		})
		if err != nil {
			return err
		}

		program := tea.NewProgram(newInterviewModel(cmd.Context(), controller, logger))
		final, err := program.Run()
		if err != nil {
			return err
		}
		if m, ok := final.(interviewModel); ok {
			if m.err != nil {
				return m.err
			}
			if m.result != nil {
				fmt.Fprintln(cmd.OutOrStdout(), renderResult(m.result))
			}
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(interviewCmd)
}

// interviewDriver is the slice of the session controller the UI drives.
type interviewDriver interface {
	Start(ctx context.Context) error
	BeginTurn(ctx context.Context) error
	EndTurn(ctx context.Context) error
	End(ctx context.Context) (*types.InterviewResult, error)
	Snapshot() session.State
}

type interviewModel struct {
	ctx    context.Context
	driver interviewDriver
	logger *slog.Logger

	state  session.State
	result *types.InterviewResult
	notice string
	err    error
}

// Messages carrying the outcome of controller calls back into Update.
type (
	sessionStartedMsg struct{ err error }
	turnStartedMsg    struct{ err error }
	turnEndedMsg      struct{ err error }
	sessionEndedMsg   struct {
		result *types.InterviewResult
		err    error
	}
)

func newInterviewModel(ctx context.Context, driver interviewDriver, logger *slog.Logger) interviewModel {
	if logger == nil {
		logger = slog.Default()
	}
	return interviewModel{
		ctx:    ctx,
		driver: driver,
		logger: logger,
		state:  driver.Snapshot(),
	}
}

func (m interviewModel) Init() tea.Cmd {
	return func() tea.Msg {
		return sessionStartedMsg{err: m.driver.Start(m.ctx)}
	}
}

func (m interviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case sessionStartedMsg:
		m.state = m.driver.Snapshot()
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		return m, nil

	case turnStartedMsg:
		m.state = m.driver.Snapshot()
		m.notice = describeGate(msg.err)
		return m, nil

	case turnEndedMsg:
		m.state = m.driver.Snapshot()
		if msg.err != nil && describeGate(msg.err) == "" {
			// The answer was dropped; surface it but keep the session going.
			m.notice = "Answer lost (" + errorMessage(msg.err) + "). Try again."
			return m, nil
		}
		m.notice = describeGate(msg.err)
		return m, nil

	case sessionEndedMsg:
		m.state = m.driver.Snapshot()
		if msg.err != nil {
			if gate := describeGate(msg.err); gate != "" {
				m.notice = gate
				return m, nil
			}
			m.err = msg.err
			return m, tea.Quit
		}
		m.result = msg.result
		return m, tea.Quit
	}
	return m, nil
}

func (m interviewModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc", "ctrl+c":
		return m, tea.Quit

	case " ":
		if m.state.Recording {
			return m, func() tea.Msg {
				return turnEndedMsg{err: m.driver.EndTurn(m.ctx)}
			}
		}
		return m, func() tea.Msg {
			return turnStartedMsg{err: m.driver.BeginTurn(m.ctx)}
		}

	case "e", "E":
		return m, func() tea.Msg {
			result, err := m.driver.End(m.ctx)
			return sessionEndedMsg{result: result, err: err}
		}
	}
	return m, nil
}

func (m interviewModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Voxhire Interview"))
	b.WriteString("\n\n")

	for _, line := range m.state.Transcript {
		style := aiLineStyle
		if line.Speaker == session.SpeakerUser {
			style = userLineStyle
		}
		b.WriteString(style.Render(string(line.Speaker)+": "+line.Text) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.err != nil:
		b.WriteString(errorStyle.Render("Error: "+errorMessage(m.err)) + "\n")
	case m.state.Recording:
		b.WriteString(recordingBadge.Render("● Recording") + "  press space to submit\n")
	case m.state.Processing:
		b.WriteString(processingBadge.Render("… Processing") + "\n")
	case m.state.LastQuestion:
		b.WriteString(noticeStyle.Render("Final question answered. Press E for your evaluation.") + "\n")
	}
	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice) + "\n")
	}

	b.WriteString("\n" + helpStyle.Render("space: record/submit  e: end interview  q: quit"))
	return b.String()
}

// describeGate maps rejected-operation errors to a short user-facing notice.
// Any other error returns empty.
func describeGate(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, session.ErrTurnInFlight):
		return "Still processing your last answer."
	case errors.Is(err, session.ErrRecordingActive):
		return "Finish recording first (press space)."
	case errors.Is(err, session.ErrLastQuestion):
		return "That was the final question. Press E to end."
	case errors.Is(err, session.ErrNotRecording):
		return "Press space to start recording."
	default:
		return ""
	}
}

func errorMessage(err error) string {
	var apiErr *core.Error
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return err.Error()
}
