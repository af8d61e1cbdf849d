package fetcher

import (
	"bytes"
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// ExtractSelection returns the text of every node matching selector, one
// paragraph per node with whitespace collapsed.
func ExtractSelection(html []byte, selector string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("script, style, noscript").Remove()

	var parts []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			parts = append(parts, text)
		}
	})
	if len(parts) == 0 {
		return "", ErrEmptySelection
	}
	return strings.Join(parts, "\n\n"), nil
}

// ExtractArticle returns the readable article text of a page.
func ExtractArticle(html []byte, pageURL *url.URL) (string, error) {
	article, err := readability.FromReader(bytes.NewReader(html), pageURL)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrReadabilityFailed, err)
	}

	text := strings.TrimSpace(article.TextContent)
	if text == "" {
		return "", ErrEmptySelection
	}
	return text, nil
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
