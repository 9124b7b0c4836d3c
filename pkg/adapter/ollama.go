package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

// OllamaClient talks to a local Ollama server over its JSON API. It
// implements both LLM and Embedder.
type OllamaClient struct {
	baseURL        string
	model          string
	embeddingModel string
	client         *http.Client
}

type OllamaOption func(*OllamaClient)

func WithOllamaModel(model string) OllamaOption {
	return func(o *OllamaClient) {
		if model != "" {
			o.model = model
		}
	}
}

func WithOllamaEmbeddingModel(model string) OllamaOption {
	return func(o *OllamaClient) {
		if model != "" {
			o.embeddingModel = model
		}
	}
}

func WithOllamaHTTPClient(client *http.Client) OllamaOption {
	return func(o *OllamaClient) {
		if client != nil {
			o.client = client
		}
	}
}

func NewOllama(baseURL string, opts ...OllamaOption) *OllamaClient {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	o := &OllamaClient{
		baseURL:        baseURL,
		model:          "llama3.2",
		embeddingModel: "nomic-embed-text",
		client: &http.Client{
			Timeout: 300 * time.Second,
		},
	}

	for _, opt := range opts {
		opt(o)
	}

	return o
}

type ollamaGenerateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaGenerateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

type ollamaEmbedRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
}

type ollamaEmbedResponse struct {
	Embedding []float32 `json:"embedding"`
}

func (o *OllamaClient) Complete(ctx context.Context, prompt string) (string, error) {
	req := ollamaGenerateRequest{
		Model:  o.model,
		Prompt: prompt,
		Stream: false,
	}

	var resp ollamaGenerateResponse
	if err := o.post(ctx, "/api/generate", req, &resp); err != nil {
		return "", goerr.Wrap(err, "failed to generate with ollama", goerr.V("model", o.model))
	}
	return resp.Response, nil
}

func (o *OllamaClient) Embed(ctx context.Context, text string) ([]float32, error) {
	req := ollamaEmbedRequest{
		Model:  o.embeddingModel,
		Prompt: text,
	}

	var resp ollamaEmbedResponse
	if err := o.post(ctx, "/api/embeddings", req, &resp); err != nil {
		return nil, goerr.Wrap(err, "failed to embed with ollama", goerr.V("model", o.embeddingModel))
	}
	if len(resp.Embedding) == 0 {
		return nil, goerr.New("ollama returned an empty embedding", goerr.V("model", o.embeddingModel))
	}
	return resp.Embedding, nil
}

func (o *OllamaClient) post(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return goerr.Wrap(err, "failed to marshal request")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+path, bytes.NewReader(body))
	if err != nil {
		return goerr.Wrap(err, "failed to create request")
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.client.Do(req)
	if err != nil {
		return goerr.Wrap(err, "failed to call ollama", goerr.V("path", path))
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return goerr.New("unexpected status from ollama", goerr.V("path", path), goerr.V("status", resp.StatusCode))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return goerr.Wrap(err, "failed to decode ollama response", goerr.V("path", path))
	}
	return nil
}
