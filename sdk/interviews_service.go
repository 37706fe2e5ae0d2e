package voxhire

import (
	"context"

	"github.com/voxhire/voxhire-go/pkg/core/audio"
	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// InterviewsService drives the interview lifecycle: one start, any number of
// voice turns, one end. The backend keys the active interview to the caller's
// token, so the service carries no session identifier of its own.
type InterviewsService struct {
	client *Client
}

// Start opens a new interview and returns the opening question.
func (s *InterviewsService) Start(ctx context.Context) (*types.StartResult, error) {
	var out types.StartResult
	if err := s.client.doPOST(ctx, "/start_interview", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// SubmitTurn uploads one recorded answer and returns the next question.
// An empty artifact is submitted as recorded; the backend decides how to
// treat silence.
func (s *InterviewsService) SubmitTurn(ctx context.Context, artifact audio.Artifact) (*types.TurnResult, error) {
	part := filePart{
		Field:     "audio",
		Filename:  artifact.Filename,
		MediaType: artifact.MediaType,
		Data:      artifact.Data,
	}
	if part.Filename == "" {
		part.Filename = audio.ArtifactFilename
	}
	if part.MediaType == "" {
		part.MediaType = audio.ArtifactMediaType
	}

	var out types.TurnResult
	if err := s.client.doMultipartPOST(ctx, "/process_voice", part, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// End closes the interview and returns the evaluation.
func (s *InterviewsService) End(ctx context.Context) (*types.InterviewResult, error) {
	var out types.InterviewResult
	if err := s.client.doPOST(ctx, "/end_interview", "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ResolveAudioURL resolves an audio reference from a Start or SubmitTurn
// response against the backend origin.
func (s *InterviewsService) ResolveAudioURL(raw string) string {
	return s.client.ResolveAudioURL(raw)
}
