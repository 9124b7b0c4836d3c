package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"
)

func historyCommand() *cli.Command {
	var (
		cfg   config
		clear bool
	)

	flags := globalFlags(&cfg)
	flags = append(flags, &cli.BoolFlag{
		Name:        "clear",
		Usage:       "Remove the stored conversation",
		Destination: &clear,
	})

	return &cli.Command{
		Name:  "history",
		Usage: "Show or clear the stored conversation",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)
			repo := cfg.newRepository()

			if clear {
				if err := repo.ClearHistory(ctx); err != nil {
					return err
				}
				fmt.Fprintf(c.Root().Writer, "History cleared\n")
				return nil
			}

			history, err := repo.LoadHistory(ctx)
			if err != nil {
				return err
			}

			if history.Len() == 0 {
				fmt.Fprintf(c.Root().Writer, "No conversation yet\n")
				return nil
			}
			for _, msg := range history.Messages {
				fmt.Fprintf(c.Root().Writer, "%s: %s\n", msg.Origin, msg.Text)
			}
			return nil
		},
	}
}
