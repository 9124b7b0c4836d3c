package chat_test

import (
	"context"
	"strings"
	"testing"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
	"github.com/meetkit/rubybot/pkg/model"
	"github.com/meetkit/rubybot/pkg/usecase/chat"
)

// Mock Repository
type mockRepository struct {
	stored []model.Message
	saves  int
	clears int
}

func (m *mockRepository) LoadHistory(ctx context.Context) (*model.History, error) {
	history := &model.History{}
	for _, msg := range m.stored {
		history.Add(msg)
	}
	return history, nil
}

func (m *mockRepository) SaveHistory(ctx context.Context, history *model.History) error {
	m.saves++
	m.stored = append([]model.Message(nil), history.Messages...)
	return nil
}

func (m *mockRepository) ClearHistory(ctx context.Context) error {
	m.clears++
	m.stored = nil
	return nil
}

// Mock LLM
type mockLLM struct {
	answer  string
	err     error
	prompts []string
}

func (m *mockLLM) Complete(ctx context.Context, prompt string) (string, error) {
	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	return m.answer, nil
}

// Mock Retriever
type mockRetriever struct {
	hits    []model.Hit
	err     error
	calls   int
	queries []string
}

func (m *mockRetriever) Query(ctx context.Context, text string, k int) ([]model.Hit, error) {
	m.calls++
	m.queries = append(m.queries, text)
	if m.err != nil {
		return nil, m.err
	}
	if k > len(m.hits) {
		k = len(m.hits)
	}
	return m.hits[:k], nil
}

func newTestSession(t *testing.T, repo *mockRepository, llm *mockLLM, retriever *mockRetriever) *chat.Session {
	t.Helper()
	session, err := chat.New(context.Background(), chat.NewInput{
		Repo:      repo,
		LLM:       llm,
		Retriever: retriever,
	})
	gt.NoError(t, err)
	return session
}

func TestGroundedTurn(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "The meeting starts at 10am on Tuesday."}
	retriever := &mockRetriever{hits: []model.Hit{
		{Chunk: model.Chunk{Index: 0, Text: "The meeting starts at 10am on Tuesday"}, Score: 0.9},
	}}

	session := newTestSession(t, repo, llm, retriever)

	answer, err := session.HandleSubmission(ctx, "when does the meeting start?")
	gt.NoError(t, err)
	gt.S(t, answer).Contains("10am")
	gt.S(t, answer).Contains("Tuesday")

	// The grounded path consulted the index exactly once.
	gt.Equal(t, retriever.calls, 1)

	// The prompt carries the retrieved context and the raw query, and
	// no unfilled placeholders leak through.
	gt.A(t, llm.prompts).Length(1)
	gt.S(t, llm.prompts[0]).Contains("The meeting starts at 10am on Tuesday")
	gt.S(t, llm.prompts[0]).Contains("when does the meeting start?")
	gt.S(t, llm.prompts[0]).NotContains("{context}")
	gt.S(t, llm.prompts[0]).NotContains("{input}")
}

func TestGeneralTurnSkipsRetrieval(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "Why did the gopher cross the road?"}
	retriever := &mockRetriever{}

	session := newTestSession(t, repo, llm, retriever)

	answer, err := session.HandleSubmission(ctx, "tell me a joke")
	gt.NoError(t, err)
	gt.V(t, answer).NotEqual("")

	// The general path never touches the index.
	gt.Equal(t, retriever.calls, 0)
	gt.A(t, llm.prompts).Length(1)
	gt.S(t, llm.prompts[0]).Contains("tell me a joke")
}

func TestTwoTurnsHistoryOrder(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "answer"}
	retriever := &mockRetriever{}

	session := newTestSession(t, repo, llm, retriever)

	_, err := session.HandleSubmission(ctx, "first meeting question")
	gt.NoError(t, err)
	_, err = session.HandleSubmission(ctx, "second question")
	gt.NoError(t, err)

	history := session.History()
	gt.Equal(t, history.Len(), 4)
	gt.Equal(t, history.Messages[0].Origin, model.OriginHuman)
	gt.Equal(t, history.Messages[0].Text, "first meeting question")
	gt.Equal(t, history.Messages[1].Origin, model.OriginAssistant)
	gt.Equal(t, history.Messages[2].Origin, model.OriginHuman)
	gt.Equal(t, history.Messages[2].Text, "second question")
	gt.Equal(t, history.Messages[3].Origin, model.OriginAssistant)

	// Every append persisted the full history.
	gt.Equal(t, repo.saves, 4)
	gt.Equal(t, repo.stored, history.Messages)
}

func TestHistoryFeedsLaterTurns(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "noted"}
	retriever := &mockRetriever{}

	session := newTestSession(t, repo, llm, retriever)

	_, err := session.HandleSubmission(ctx, "the meeting is about budgets")
	gt.NoError(t, err)
	_, err = session.HandleSubmission(ctx, "what was the meeting about again?")
	gt.NoError(t, err)

	// The second retrieval input contains the earlier exchange in
	// "<origin>: <text>" form.
	gt.Equal(t, retriever.calls, 2)
	gt.S(t, retriever.queries[1]).Contains("human: the meeting is about budgets")
	gt.S(t, retriever.queries[1]).Contains("assistant: noted")
	gt.S(t, retriever.queries[1]).Contains("what was the meeting about again?")
}

func TestGenerationFailureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{err: goerr.New("model unavailable")}
	retriever := &mockRetriever{}

	session := newTestSession(t, repo, llm, retriever)

	_, err := session.HandleSubmission(ctx, "summarize the meeting")
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to generate answer")

	// A broken exchange is neither kept nor persisted.
	gt.Equal(t, session.History().Len(), 0)
	gt.Equal(t, repo.saves, 0)
}

func TestRetrievalFailureLeavesHistory(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "answer"}
	retriever := &mockRetriever{err: goerr.New("index unavailable")}

	session := newTestSession(t, repo, llm, retriever)

	_, err := session.HandleSubmission(ctx, "summarize the meeting")
	gt.Error(t, err)
	gt.S(t, err.Error()).Contains("failed to retrieve context")
	gt.Equal(t, session.History().Len(), 0)
	gt.A(t, llm.prompts).Length(0)
}

func TestEmptyRetrievalStillAnswers(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "I don't know."}
	retriever := &mockRetriever{} // no hits

	session := newTestSession(t, repo, llm, retriever)

	answer, err := session.HandleSubmission(ctx, "what did the meeting decide?")
	gt.NoError(t, err)
	gt.Equal(t, answer, "I don't know.")
	gt.Equal(t, retriever.calls, 1)
}

func TestSessionRehydratesHistory(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{stored: []model.Message{
		{Origin: model.OriginHuman, Text: "hello"},
		{Origin: model.OriginAssistant, Text: "Hi! Ask me about your meeting."},
	}}

	session := newTestSession(t, repo, &mockLLM{answer: "answer"}, &mockRetriever{})
	gt.Equal(t, session.History().Len(), 2)

	_, err := session.HandleSubmission(ctx, "ok, about the meeting")
	gt.NoError(t, err)
	gt.Equal(t, session.History().Len(), 4)
}

func TestClear(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	session := newTestSession(t, repo, &mockLLM{answer: "answer"}, &mockRetriever{})

	_, err := session.HandleSubmission(ctx, "about the meeting")
	gt.NoError(t, err)
	gt.Equal(t, session.History().Len(), 2)

	gt.NoError(t, session.Clear(ctx))
	gt.Equal(t, session.History().Len(), 0)
	gt.A(t, repo.stored).Length(0)

	// Clearing twice is fine.
	gt.NoError(t, session.Clear(ctx))
	gt.Equal(t, repo.clears, 2)
}

func TestCustomPromptsAndRouter(t *testing.T) {
	ctx := context.Background()
	repo := &mockRepository{}
	llm := &mockLLM{answer: "answer"}
	retriever := &mockRetriever{}

	session, err := chat.New(ctx, chat.NewInput{
		Repo:      repo,
		LLM:       llm,
		Retriever: retriever,
		Router:    chat.NewRouter([]string{"standup"}),
		Prompts: chat.Prompts{
			Grounded: "CTX={context} Q={input}",
			General:  "Q={input}",
		},
		TopK: 2,
	})
	gt.NoError(t, err)

	_, err = session.HandleSubmission(ctx, "what happened in the standup?")
	gt.NoError(t, err)
	gt.Equal(t, retriever.calls, 1)
	gt.True(t, strings.HasPrefix(llm.prompts[0], "CTX="))

	_, err = session.HandleSubmission(ctx, "and the meeting?")
	gt.NoError(t, err)
	gt.Equal(t, retriever.calls, 1) // "meeting" is not a trigger here
}
