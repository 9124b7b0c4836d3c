package repository

import (
	"context"
	"encoding/json"
	"errors"
	"io/fs"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/model"
	"github.com/meetkit/rubybot/pkg/utils/logging"
)

// Local persists the conversation history as a single JSON file: one
// array of {origin, text} records, rewritten as a whole on every save.
type Local struct {
	path string
}

func NewLocal(path string) *Local {
	return &Local{path: path}
}

// LoadHistory reads the history file. A missing, unreadable or corrupt
// file degrades to an empty history with a warning; it never fails the
// caller.
func (r *Local) LoadHistory(ctx context.Context) (*model.History, error) {
	data, err := os.ReadFile(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			logging.From(ctx).Warn("failed to read history file, starting empty", "path", r.path, "error", err)
		}
		return &model.History{}, nil
	}

	var messages []model.Message
	if err := json.Unmarshal(data, &messages); err != nil {
		logging.From(ctx).Warn("history file is corrupt, starting empty", "path", r.path, "error", err)
		return &model.History{}, nil
	}

	history := &model.History{}
	for _, msg := range messages {
		if err := msg.Origin.Validate(); err != nil {
			logging.From(ctx).Warn("skipping history record with unknown origin", "origin", msg.Origin)
			continue
		}
		history.Add(msg)
	}
	return history, nil
}

// SaveHistory rewrites the whole history file. Write failures are
// logged, not surfaced; the in-memory history stays authoritative for
// the session.
func (r *Local) SaveHistory(ctx context.Context, history *model.History) error {
	messages := history.Messages
	if messages == nil {
		messages = []model.Message{}
	}

	data, err := json.Marshal(messages)
	if err != nil {
		logging.From(ctx).Warn("failed to marshal history", "error", err)
		return nil
	}
	if err := os.WriteFile(r.path, data, 0o644); err != nil {
		logging.From(ctx).Warn("failed to write history file", "path", r.path, "error", err)
	}
	return nil
}

// ClearHistory removes the history file. Repeated calls are safe.
func (r *Local) ClearHistory(ctx context.Context) error {
	if err := os.Remove(r.path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return goerr.Wrap(err, "failed to remove history file", goerr.V("path", r.path))
	}
	return nil
}
