package repository

import (
	"context"

	"github.com/meetkit/rubybot/pkg/model"
)

// Repository defines the interface for conversation history persistence
type Repository interface {
	// LoadHistory returns the persisted history, or an empty history
	// when none has been saved yet
	LoadHistory(ctx context.Context) (*model.History, error)

	// SaveHistory overwrites the persisted history as a whole
	SaveHistory(ctx context.Context, history *model.History) error

	// ClearHistory removes the persisted history. Clearing an absent
	// history is not an error
	ClearHistory(ctx context.Context) error
}
