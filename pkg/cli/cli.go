package cli

import (
	"context"

	"github.com/meetkit/rubybot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

type Error struct {
	Code    int
	Message string
}

func Run(ctx context.Context, argv []string) *Error {
	cmd := &cli.Command{
		Name:  "rubybot",
		Usage: "RUBY, the meeting transcript assistant",
		Commands: []*cli.Command{
			chatCommand(),
			askCommand(),
			searchCommand(),
			historyCommand(),
		},
	}

	if err := cmd.Run(ctx, argv); err != nil {
		logging.Default().Error("command failed", "error", err)
		return &Error{
			Code:    1,
			Message: err.Error(),
		}
	}

	return nil
}
