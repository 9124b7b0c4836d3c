package cli

import (
	"context"
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/adapter"
	"github.com/meetkit/rubybot/pkg/repository"
	"github.com/meetkit/rubybot/pkg/usecase/chat"
	"github.com/meetkit/rubybot/pkg/usecase/index"
	"github.com/meetkit/rubybot/pkg/usecase/ingest"
	"github.com/meetkit/rubybot/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values shared across commands
type config struct {
	transcript  string
	historyFile string
	profilePath string
	logLevel    string

	topK int64

	llmProvider      string
	embedderProvider string

	ollamaBaseURL    string
	ollamaModel      string
	ollamaEmbedModel string

	geminiProject    string
	geminiLocation   string
	geminiModel      string
	geminiEmbedModel string

	anthropicAPIKey string
	claudeModel     string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "transcript",
			Aliases:     []string{"t"},
			Usage:       "Path to the meeting transcript (PDF or plain text)",
			Value:       "Transcript.pdf",
			Sources:     cli.EnvVars("RUBYBOT_TRANSCRIPT"),
			Destination: &cfg.transcript,
		},
		&cli.StringFlag{
			Name:        "history-file",
			Usage:       "Path to the chat history file",
			Value:       "chat_history.json",
			Sources:     cli.EnvVars("RUBYBOT_HISTORY_FILE"),
			Destination: &cfg.historyFile,
		},
		&cli.StringFlag{
			Name:        "profile",
			Usage:       "Path to an assistant profile YAML (keywords, prompts, chunking)",
			Sources:     cli.EnvVars("RUBYBOT_PROFILE"),
			Destination: &cfg.profilePath,
		},
		&cli.StringFlag{
			Name:        "log-level",
			Usage:       "Log level (debug, info, warn, error)",
			Value:       "info",
			Sources:     cli.EnvVars("RUBYBOT_LOG_LEVEL"),
			Destination: &cfg.logLevel,
		},
	}
}

// llmFlags returns flags for LLM and embedding configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.IntFlag{
			Name:        "top-k",
			Aliases:     []string{"k"},
			Usage:       "Number of chunks to retrieve per grounded query",
			Value:       index.DefaultTopK,
			Sources:     cli.EnvVars("RUBYBOT_TOP_K"),
			Destination: &cfg.topK,
		},
		&cli.StringFlag{
			Name:        "llm",
			Usage:       "Completion provider (ollama, gemini, claude)",
			Value:       "ollama",
			Sources:     cli.EnvVars("RUBYBOT_LLM"),
			Destination: &cfg.llmProvider,
		},
		&cli.StringFlag{
			Name:        "embedder",
			Usage:       "Embedding provider (ollama, gemini)",
			Value:       "ollama",
			Sources:     cli.EnvVars("RUBYBOT_EMBEDDER"),
			Destination: &cfg.embedderProvider,
		},
		&cli.StringFlag{
			Name:        "ollama-base-url",
			Usage:       "Ollama server base URL",
			Value:       "http://localhost:11434",
			Sources:     cli.EnvVars("RUBYBOT_OLLAMA_BASE_URL"),
			Destination: &cfg.ollamaBaseURL,
		},
		&cli.StringFlag{
			Name:        "ollama-model",
			Usage:       "Ollama completion model",
			Value:       "llama3.2",
			Sources:     cli.EnvVars("RUBYBOT_OLLAMA_MODEL"),
			Destination: &cfg.ollamaModel,
		},
		&cli.StringFlag{
			Name:        "ollama-embedding-model",
			Usage:       "Ollama embedding model",
			Value:       "nomic-embed-text",
			Sources:     cli.EnvVars("RUBYBOT_OLLAMA_EMBEDDING_MODEL"),
			Destination: &cfg.ollamaEmbedModel,
		},
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "gemini-model",
			Usage:       "Gemini completion model",
			Sources:     cli.EnvVars("RUBYBOT_GEMINI_MODEL"),
			Destination: &cfg.geminiModel,
		},
		&cli.StringFlag{
			Name:        "gemini-embedding-model",
			Usage:       "Gemini embedding model",
			Sources:     cli.EnvVars("RUBYBOT_GEMINI_EMBEDDING_MODEL"),
			Destination: &cfg.geminiEmbedModel,
		},
		&cli.StringFlag{
			Name:        "anthropic-api-key",
			Usage:       "Anthropic API key",
			Sources:     cli.EnvVars("ANTHROPIC_API_KEY"),
			Destination: &cfg.anthropicAPIKey,
		},
		&cli.StringFlag{
			Name:        "claude-model",
			Usage:       "Claude completion model",
			Sources:     cli.EnvVars("RUBYBOT_CLAUDE_MODEL"),
			Destination: &cfg.claudeModel,
		},
	}
}

// setupLogger installs a logger at the configured level and attaches
// it to the context
func (cfg *config) setupLogger(ctx context.Context) context.Context {
	logger := logging.New(cfg.logLevel, os.Stderr)
	logging.SetDefault(logger)
	return logging.With(ctx, logger)
}

// newRepository creates the history repository
func (cfg *config) newRepository() repository.Repository {
	return repository.NewLocal(cfg.historyFile)
}

// newLLM creates the configured completion provider
func (cfg *config) newLLM(ctx context.Context) (adapter.LLM, error) {
	switch cfg.llmProvider {
	case "", "ollama":
		return adapter.NewOllama(cfg.ollamaBaseURL, adapter.WithOllamaModel(cfg.ollamaModel)), nil
	case "gemini":
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation,
			adapter.WithGenerativeModel(cfg.geminiModel))
	case "claude":
		if cfg.anthropicAPIKey == "" {
			return nil, goerr.New("anthropic-api-key is required")
		}
		return adapter.NewClaude(cfg.anthropicAPIKey, adapter.WithClaudeModel(cfg.claudeModel)), nil
	default:
		return nil, goerr.New("unknown llm provider", goerr.V("provider", cfg.llmProvider))
	}
}

// newEmbedder creates the configured embedding provider
func (cfg *config) newEmbedder(ctx context.Context) (adapter.Embedder, error) {
	switch cfg.embedderProvider {
	case "", "ollama":
		return adapter.NewOllama(cfg.ollamaBaseURL,
			adapter.WithOllamaEmbeddingModel(cfg.ollamaEmbedModel)), nil
	case "gemini":
		if cfg.geminiProject == "" {
			return nil, goerr.New("gemini-project is required")
		}
		return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation,
			adapter.WithEmbeddingModel(cfg.geminiEmbedModel))
	default:
		return nil, goerr.New("unknown embedder provider", goerr.V("provider", cfg.embedderProvider))
	}
}

// buildIndex loads and splits the transcript, then embeds every chunk.
// Any failure here is fatal: the assistant cannot run without an index.
func (cfg *config) buildIndex(ctx context.Context, prof *profile) (*index.Index, error) {
	doc, err := ingest.Load(cfg.transcript)
	if err != nil {
		return nil, err
	}

	chunks := ingest.Split(doc, prof.ChunkSize, prof.ChunkOverlap)
	logging.From(ctx).Info("transcript loaded",
		"path", doc.Path, "pages", len(doc.Pages), "chunks", len(chunks))

	embedder, err := cfg.newEmbedder(ctx)
	if err != nil {
		return nil, err
	}

	idx, err := index.Build(ctx, embedder, chunks)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to build index", goerr.V("path", doc.Path))
	}
	return idx, nil
}

// newSession wires a chat session from the configured dependencies
func (cfg *config) newSession(ctx context.Context, idx *index.Index, prof *profile) (*chat.Session, error) {
	llm, err := cfg.newLLM(ctx)
	if err != nil {
		return nil, err
	}

	return chat.New(ctx, chat.NewInput{
		Repo:      cfg.newRepository(),
		LLM:       llm,
		Retriever: idx,
		Router:    chat.NewRouter(prof.Keywords),
		Prompts:   prof.Prompts,
		TopK:      int(cfg.topK),
	})
}
