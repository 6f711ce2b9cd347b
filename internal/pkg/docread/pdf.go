package docread

import (
	"log"
	"strings"

	"github.com/ledongthuc/pdf"
)

// readPDF extracts text page by page and joins pages with newlines.
func readPDF(path string) string {
	f, reader, err := pdf.Open(path)
	if err != nil {
		log.Printf("docread: open pdf %s failed: %v", path, err)
		return ""
	}
	defer f.Close()

	var pages []string
	total := reader.NumPage()
	for i := 1; i <= total; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("docread: extract pdf page %d of %s failed: %v", i, path, err)
			continue
		}
		if strings.TrimSpace(text) != "" {
			pages = append(pages, text)
		}
	}
	return strings.Join(pages, "\n")
}
