package model

// Document is the source transcript loaded at startup.
type Document struct {
	ID    string
	Path  string
	Pages []Page
}

// Page is one page of the source document.
type Page struct {
	Number int
	Text   string
}

// Chunk is a contiguous span of document text produced during
// ingestion. Index is the position in reading order; consecutive
// chunks overlap by a fixed amount so boundary context is not lost.
type Chunk struct {
	DocumentID string
	Index      int
	Page       int
	Text       string
}

// Hit is a retrieved chunk with its similarity score.
type Hit struct {
	Chunk Chunk
	Score float64
}
