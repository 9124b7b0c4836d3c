// Package ingest loads the meeting transcript and splits it into
// overlapping chunks for retrieval indexing.
package ingest

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/model"
)

const (
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 100
)

// Load reads the transcript at path. PDF files are loaded page by
// page; any other file is treated as a single page of plain text.
func Load(path string) (*model.Document, error) {
	var (
		pages []model.Page
		err   error
	)
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		pages, err = loadPDF(path)
	} else {
		pages, err = loadText(path)
	}
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load transcript", goerr.V("path", path))
	}
	if len(pages) == 0 {
		return nil, goerr.New("transcript has no readable text", goerr.V("path", path))
	}

	return &model.Document{
		ID:    uuid.New().String(),
		Path:  path,
		Pages: pages,
	}, nil
}

func loadText(path string) ([]model.Page, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	text := strings.TrimSpace(string(data))
	if text == "" {
		return nil, nil
	}
	return []model.Page{{Number: 1, Text: text}}, nil
}

// Split cuts each page into fixed-size rune windows with the given
// overlap between consecutive windows, preserving reading order.
// The result is deterministic for a given document and parameters.
func Split(doc *model.Document, size, overlap int) []model.Chunk {
	if size <= 0 {
		size = DefaultChunkSize
	}
	if overlap < 0 {
		overlap = 0
	}
	if overlap >= size {
		overlap = size / 5
	}

	var chunks []model.Chunk
	for _, page := range doc.Pages {
		runes := []rune(page.Text)
		for start := 0; start < len(runes); {
			end := start + size
			if end > len(runes) {
				end = len(runes)
			}

			text := strings.TrimSpace(string(runes[start:end]))
			if text != "" {
				chunks = append(chunks, model.Chunk{
					DocumentID: doc.ID,
					Index:      len(chunks),
					Page:       page.Number,
					Text:       text,
				})
			}

			if end == len(runes) {
				break
			}
			start = end - overlap
		}
	}
	return chunks
}
