package artwork

import (
	"fmt"
	"strings"

	"github.com/gen2brain/go-fitz"
)

// ExtractPDFText pulls the text layer out of every page of a PDF so the
// text model can analyze spec sheets that arrive as documents instead of
// images.
func ExtractPDFText(pdfPath string) (string, error) {
	doc, err := fitz.New(pdfPath)
	if err != nil {
		return "", fmt.Errorf("open artwork pdf: %w", err)
	}
	defer doc.Close()

	if doc.NumPage() == 0 {
		return "", fmt.Errorf("artwork pdf %s has no pages", pdfPath)
	}

	var sb strings.Builder
	for page := 0; page < doc.NumPage(); page++ {
		text, err := doc.Text(page)
		if err != nil {
			return "", fmt.Errorf("extract text from pdf page %d: %w", page+1, err)
		}
		sb.WriteString(text)
		sb.WriteString("\n")
	}
	return sb.String(), nil
}
