package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func askCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "ask",
		Usage:     "Ask a single question about the meeting transcript",
		ArgsUsage: "<question>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("no question provided")
			}

			prof, err := loadProfile(cfg.profilePath)
			if err != nil {
				return err
			}

			idx, err := cfg.buildIndex(ctx, prof)
			if err != nil {
				return err
			}

			session, err := cfg.newSession(ctx, idx, prof)
			if err != nil {
				return err
			}

			answer, err := session.HandleSubmission(ctx, query)
			if err != nil {
				return err
			}

			fmt.Fprintf(c.Root().Writer, "%s\n", answer)
			return nil
		},
	}
}
