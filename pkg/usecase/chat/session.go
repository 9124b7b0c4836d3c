package chat

import (
	"context"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/adapter"
	"github.com/meetkit/rubybot/pkg/model"
	"github.com/meetkit/rubybot/pkg/repository"
	"github.com/meetkit/rubybot/pkg/utils/logging"
)

const defaultTopK = 4

// Retriever returns the chunks most similar to text, best first.
type Retriever interface {
	Query(ctx context.Context, text string, k int) ([]model.Hit, error)
}

// Session processes user submissions one turn at a time. It is the
// sole owner of the in-memory conversation history; callers must not
// run two turns concurrently.
type Session struct {
	repo      repository.Repository
	llm       adapter.LLM
	retriever Retriever
	router    *Router
	prompts   Prompts
	topK      int

	history *model.History
}

// NewInput contains the dependencies for a chat session
type NewInput struct {
	Repo      repository.Repository
	LLM       adapter.LLM
	Retriever Retriever
	Router    *Router
	Prompts   Prompts
	TopK      int
}

// New rehydrates the conversation history from the repository and
// returns a ready session.
func New(ctx context.Context, input NewInput) (*Session, error) {
	history, err := input.Repo.LoadHistory(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load history")
	}

	router := input.Router
	if router == nil {
		router = NewRouter(nil)
	}

	prompts := input.Prompts
	defaults := DefaultPrompts()
	if prompts.Grounded == "" {
		prompts.Grounded = defaults.Grounded
	}
	if prompts.General == "" {
		prompts.General = defaults.General
	}

	topK := input.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	return &Session{
		repo:      input.Repo,
		llm:       input.LLM,
		retriever: input.Retriever,
		router:    router,
		prompts:   prompts,
		topK:      topK,
		history:   history,
	}, nil
}

// History returns the current conversation history
func (s *Session) History() *model.History {
	return s.history
}

// Clear drops the in-memory conversation and removes the persisted one
func (s *Session) Clear(ctx context.Context) error {
	s.history = &model.History{}
	if err := s.repo.ClearHistory(ctx); err != nil {
		return goerr.Wrap(err, "failed to clear history")
	}
	return nil
}

// HandleSubmission runs one conversational turn: the query is routed
// to the grounded or general pipeline, answered, and on success both
// sides of the exchange are appended to the history, each append
// persisted before returning. On failure the history stays untouched
// so a broken exchange is never persisted.
func (s *Session) HandleSubmission(ctx context.Context, query string) (string, error) {
	route := s.router.Classify(query)
	logging.From(ctx).Debug("classified query", "route", route.String())

	var prompt string
	switch route {
	case RouteGrounded:
		p, err := s.groundedPrompt(ctx, query)
		if err != nil {
			return "", err
		}
		prompt = p
	default:
		prompt = s.generalPrompt(query)
	}

	answer, err := s.llm.Complete(ctx, prompt)
	if err != nil {
		return "", goerr.Wrap(err, "failed to generate answer", goerr.V("route", route.String()))
	}

	if err := s.append(ctx, model.OriginHuman, query); err != nil {
		return "", err
	}
	if err := s.append(ctx, model.OriginAssistant, answer); err != nil {
		return "", err
	}

	return answer, nil
}

// groundedPrompt retrieves supporting chunks for the query and fills
// the grounded template. Retrieval input includes the conversation so
// far; the {input} placeholder gets the raw query.
func (s *Session) groundedPrompt(ctx context.Context, query string) (string, error) {
	retrievalInput := query
	if conversation := s.history.Context(); conversation != "" {
		retrievalInput = conversation + "\n" + query
	}

	hits, err := s.retriever.Query(ctx, retrievalInput, s.topK)
	if err != nil {
		return "", goerr.Wrap(err, "failed to retrieve context")
	}

	parts := make([]string, 0, len(hits))
	for _, hit := range hits {
		parts = append(parts, hit.Chunk.Text)
	}
	if len(parts) == 0 {
		// The grounded prompt instructs the model to admit it doesn't
		// know when the context is empty.
		logging.From(ctx).Debug("retrieval returned no chunks")
	}

	return fill(s.prompts.Grounded, map[string]string{
		"context": strings.Join(parts, "\n\n"),
		"input":   query,
	}), nil
}

func (s *Session) generalPrompt(query string) string {
	input := query
	if conversation := s.history.Context(); conversation != "" {
		input = conversation + "\n" + query
	}
	return fill(s.prompts.General, map[string]string{"input": input})
}

func (s *Session) append(ctx context.Context, origin model.Origin, text string) error {
	msg, err := model.NewMessage(origin, text)
	if err != nil {
		return err
	}
	s.history.Add(msg)
	return s.repo.SaveHistory(ctx, s.history)
}
