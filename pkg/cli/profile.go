package cli

import (
	"os"

	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/usecase/chat"
	"github.com/meetkit/rubybot/pkg/usecase/ingest"
	"gopkg.in/yaml.v3"
)

// profile is the optional YAML assistant profile: trigger keywords for
// the query router, prompt template overrides, and chunking
// parameters. Absent fields keep the built-in defaults.
type profile struct {
	Keywords     []string     `yaml:"keywords"`
	ChunkSize    int          `yaml:"chunk_size"`
	ChunkOverlap int          `yaml:"chunk_overlap"`
	Prompts      chat.Prompts `yaml:"prompts"`
}

func loadProfile(path string) (*profile, error) {
	prof := &profile{
		ChunkSize:    ingest.DefaultChunkSize,
		ChunkOverlap: ingest.DefaultChunkOverlap,
	}
	if path == "" {
		return prof, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read profile", goerr.V("path", path))
	}
	if err := yaml.Unmarshal(data, prof); err != nil {
		return nil, goerr.Wrap(err, "failed to parse profile", goerr.V("path", path))
	}

	if prof.ChunkSize <= 0 {
		prof.ChunkSize = ingest.DefaultChunkSize
	}
	if prof.ChunkOverlap < 0 {
		prof.ChunkOverlap = 0
	}
	return prof, nil
}
