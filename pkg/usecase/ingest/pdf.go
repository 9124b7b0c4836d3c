package ingest

import (
	"strings"

	"github.com/ledongthuc/pdf"
	"github.com/m-mizutani/goerr/v2"
	"github.com/meetkit/rubybot/pkg/model"
)

func loadPDF(path string) ([]model.Page, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to open pdf")
	}
	defer f.Close()

	var pages []model.Page
	for i := 1; i <= reader.NumPage(); i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to extract pdf text", goerr.V("page", i))
		}

		text = strings.TrimSpace(text)
		if text == "" {
			continue
		}
		pages = append(pages, model.Page{Number: i, Text: text})
	}
	return pages, nil
}
