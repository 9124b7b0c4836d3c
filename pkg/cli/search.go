package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

// searchCommand retrieves chunks without generating an answer; useful
// for inspecting what a grounded query would see.
func searchCommand() *cli.Command {
	var cfg config

	flags := globalFlags(&cfg)
	flags = append(flags, llmFlags(&cfg)...)

	return &cli.Command{
		Name:      "search",
		Usage:     "Show the transcript chunks most similar to a query",
		ArgsUsage: "<query>",
		Flags:     flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			ctx = cfg.setupLogger(ctx)

			query := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
			if query == "" {
				return goerr.New("no query provided")
			}

			prof, err := loadProfile(cfg.profilePath)
			if err != nil {
				return err
			}

			idx, err := cfg.buildIndex(ctx, prof)
			if err != nil {
				return err
			}

			hits, err := idx.Query(ctx, query, int(cfg.topK))
			if err != nil {
				return goerr.Wrap(err, "failed to search index")
			}

			for rank, hit := range hits {
				fmt.Fprintf(c.Root().Writer, "%d. score=%.4f page=%d chunk=%d\n%s\n\n",
					rank+1, hit.Score, hit.Chunk.Page, hit.Chunk.Index, hit.Chunk.Text)
			}
			return nil
		},
	}
}
