package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-shiori/go-readability"
	"golang.org/x/net/html"

	"captioncraft/internal/app/model"
)

// ArticleText extracts the readable article body of an HTML page. Pages
// readability cannot score fall back to all visible text.
func ArticleText(data []byte) (string, error) {
	doc, err := html.Parse(bytes.NewReader(data))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}

	text := ""
	if article, err := readability.FromDocument(doc, nil); err == nil {
		text = strings.TrimSpace(article.TextContent)
	}
	if text == "" {
		text = visibleText(doc)
	}
	if text == "" {
		return "", &model.ValidationError{Message: "the page has no readable text"}
	}
	return text, nil
}

func visibleText(doc *html.Node) string {
	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && (n.Data == "script" || n.Data == "style" || n.Data == "noscript") {
			return
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)
	return b.String()
}
