package document

import (
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/nao1215/iocextract/internal/model"
)

// Normalize returns text in Unicode NFKC form with invalid UTF-8 sequences
// replaced. Compatibility characters such as U+FF0E FULLWIDTH FULL STOP or
// the "fi" ligature become their ASCII equivalents.
func Normalize(text string) string {
	text = strings.ToValidUTF8(text, "\uFFFD")
	return norm.NFKC.String(text)
}

func normalizeMetadata(m model.Metadata) model.Metadata {
	return model.Metadata{
		Title:        strings.TrimSpace(Normalize(m.Title)),
		Author:       strings.TrimSpace(Normalize(m.Author)),
		Subject:      strings.TrimSpace(Normalize(m.Subject)),
		Creator:      strings.TrimSpace(Normalize(m.Creator)),
		Producer:     strings.TrimSpace(Normalize(m.Producer)),
		CreationDate: strings.TrimSpace(m.CreationDate),
		ModDate:      strings.TrimSpace(m.ModDate),
	}
}
