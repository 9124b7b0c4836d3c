package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/briandowns/spinner"
	"github.com/chzyer/readline"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func chatCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:  "chat",
		Usage: "Interactive conversation about the meeting transcript",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

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

			rl, err := readline.New("you> ")
			if err != nil {
				return goerr.Wrap(err, "failed to initialize readline")
			}
			defer rl.Close()

			fmt.Fprintf(c.Root().Writer, "RUBY is ready. Ask about your meeting ('exit' to quit, '/clear' for a new chat).\n")
			for _, msg := range session.History().Messages {
				fmt.Fprintf(c.Root().Writer, "%s: %s\n", msg.Origin, msg.Text)
			}

			for {
				line, err := rl.Readline()
				if err != nil {
					// Ctrl-C or Ctrl-D ends the session
					if errors.Is(err, readline.ErrInterrupt) || errors.Is(err, io.EOF) {
						break
					}
					return goerr.Wrap(err, "failed to read input")
				}

				query := strings.TrimSpace(line)
				switch query {
				case "":
					continue
				case "exit":
					fmt.Fprintf(c.Root().Writer, "Chat session completed\n")
					return nil
				case "/clear":
					if err := session.Clear(ctx); err != nil {
						fmt.Fprintf(c.Root().ErrWriter, "failed to clear: %v\n", err)
						continue
					}
					fmt.Fprintf(c.Root().Writer, "Started a new chat.\n")
					continue
				}

				sp := spinner.New(spinner.CharSets[14], 100*time.Millisecond)
				sp.Suffix = " thinking..."
				sp.Start()
				answer, err := session.HandleSubmission(ctx, query)
				sp.Stop()

				// A failed turn is contained: nothing is persisted and
				// the conversation continues.
				if err != nil {
					fmt.Fprintf(c.Root().ErrWriter, "turn failed: %v\n", err)
					continue
				}

				fmt.Fprintf(c.Root().Writer, "RUBY: %s\n", answer)
			}

			fmt.Fprintf(c.Root().Writer, "\nChat session completed\n")
			return nil
		},
	}
}
