package voxhire

import (
	"context"

	"github.com/voxhire/voxhire-go/pkg/core/types"
)

// HistoryService reads past interview outcomes.
type HistoryService struct {
	client *Client
}

// List returns the caller's finished interviews, most recent first as
// ordered by the backend. No history yields an empty slice, not an error.
func (s *HistoryService) List(ctx context.Context) ([]types.HistoryItem, error) {
	var out []types.HistoryItem
	if err := s.client.doGET(ctx, "/history", &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []types.HistoryItem{}
	}
	return out, nil
}
