package parser

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

type Parser struct{}

// ArticleText uses go-readability to find the main article content and then
// reads the text of its block elements with goquery.
func (p *Parser) ArticleText(rawURL, html string) (string, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("invalid URL: %w", err)
	}

	readabilityParser := readability.NewParser()
	article, err := readabilityParser.Parse(strings.NewReader(html), parsedURL)
	if err != nil {
		return "", fmt.Errorf("readability failed: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(article.Content))
	if err != nil {
		return "", fmt.Errorf("failed to parse article HTML: %w", err)
	}

	var sb strings.Builder
	if title := normalizeText(article.Title); title != "" {
		sb.WriteString(title)
		sb.WriteString("\n")
	}
	doc.Find("h1,h2,h3,h4,h5,h6,p,li,td,th,pre,blockquote").Each(func(i int, s *goquery.Selection) {
		// Nested matches (li > p) would be counted twice.
		if s.ParentsFiltered("li,td,th,blockquote").Length() > 0 {
			return
		}
		if text := normalizeText(s.Text()); text != "" {
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	})

	return sb.String(), nil
}

// BodyText returns the visible text of an HTML document, without scripts and styles.
func (p *Parser) BodyText(html string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc.Find("script,style,noscript,template").Remove()

	body := doc.Find("body")
	if body.Length() == 0 {
		return normalizeText(doc.Text()), nil
	}
	return normalizeText(body.Text()), nil
}

// ExtractText prefers article extraction and falls back to the whole body
// when readability cannot find an article.
func (p *Parser) ExtractText(rawURL, html string) (string, error) {
	text, err := p.ArticleText(rawURL, html)
	if err == nil && strings.TrimSpace(text) != "" {
		return text, nil
	}
	return p.BodyText(html)
}

// normalizeText collapses runs of whitespace, newlines included, to single spaces.
func normalizeText(input string) string {
	return strings.Join(strings.Fields(input), " ")
}
