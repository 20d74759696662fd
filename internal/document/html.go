package document

import (
	"bytes"
	"context"
	"strings"

	"golang.org/x/net/html"

	"github.com/nao1215/iocextract/internal/model"
)

// HTMLReader extracts the visible text of an HTML page.
//
// Script and style bodies are skipped. Link targets (href, src, action) are
// appended to the text because reports often carry indicators only inside
// anchors. Comments are kept as text; analysts leave indicators there too.
type HTMLReader struct{}

// NewHTMLReader creates an HTML reader.
func NewHTMLReader() *HTMLReader {
	return &HTMLReader{}
}

// Format returns model.FormatHTML.
func (r *HTMLReader) Format() model.Format {
	return model.FormatHTML
}

// linkAttrs are the attributes whose values are added to the text.
var linkAttrs = map[string]bool{
	"href":   true,
	"src":    true,
	"action": true,
}

// Read parses data as HTML and fills doc with one line per text node.
func (r *HTMLReader) Read(_ context.Context, doc *model.Document, data []byte) error {
	root, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return err
	}

	var lines []string
	var links []string

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		switch n.Type {
		case html.ElementNode:
			switch n.Data {
			case "script", "style", "noscript":
				return
			case "title":
				if n.FirstChild != nil && n.FirstChild.Type == html.TextNode {
					doc.Metadata.Title = strings.TrimSpace(n.FirstChild.Data)
				}
			}
			for _, attr := range n.Attr {
				if linkAttrs[attr.Key] && strings.TrimSpace(attr.Val) != "" {
					links = append(links, strings.TrimSpace(attr.Val))
				}
			}
		case html.TextNode, html.CommentNode:
			if text := strings.TrimSpace(n.Data); text != "" {
				lines = append(lines, text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)

	doc.Text = strings.Join(append(lines, links...), "\n")
	doc.Pages = 1
	return nil
}
