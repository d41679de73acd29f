package tanshin

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Sanitizer cleans a raw filing document before extraction. TDnet renditions
// share the same noise problems as other regulatory HTML: inline-XBRL tags
// wrapping every figure, spacer images, and page-number footers that break
// line-based scans.
type Sanitizer struct{}

func NewSanitizer() *Sanitizer {
	return &Sanitizer{}
}

var pageFooterRe = regexp.MustCompile(`^(?:[-－―]\s*\d+\s*[-－―]|\d+ページ|\d+)$`)

// Sanitize parses the raw HTML and returns a cleaned goquery document.
func (s *Sanitizer) Sanitize(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	doc.Find("script, style").Remove()
	doc.Find("[hidden], [style*='display:none'], [style*='display: none']").Remove()

	// Inline-XBRL value tags: keep the text, drop the markup.
	doc.Find("ix\\:nonFraction, ix\\:nonNumeric, ix\\:fraction").Each(func(i int, sel *goquery.Selection) {
		sel.ReplaceWithHtml(sel.Text())
	})

	// Spacer images contribute nothing to text extraction.
	doc.Find("img").Each(func(i int, sel *goquery.Selection) {
		src, _ := sel.Attr("src")
		width, _ := sel.Attr("width")
		height, _ := sel.Attr("height")
		if src == "" || strings.Contains(src, "spacer") || strings.Contains(src, "blank") ||
			width == "1" || height == "1" {
			sel.Remove()
		}
	})

	// Page-number footers confuse the line scanner.
	doc.Find("p, div, span").Each(func(i int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if len(text) > 0 && len(text) < 20 && pageFooterRe.MatchString(text) && sel.Children().Length() == 0 {
			sel.Remove()
		}
	})

	return doc, nil
}

// DocumentText renders the cleaned document as newline-separated text lines,
// one per block element, for the line-based fallback scans.
func DocumentText(doc *goquery.Document) string {
	var b strings.Builder
	doc.Find("body").Find("h1, h2, h3, h4, p, div, td, th, li").Each(func(i int, sel *goquery.Selection) {
		// Only leaf-ish blocks; container divs would duplicate every line.
		if sel.Children().Filter("p, div, table, ul, ol").Length() > 0 {
			return
		}
		text := strings.TrimSpace(sel.Text())
		if text != "" {
			b.WriteString(text)
			b.WriteString("\n")
		}
	})
	if b.Len() == 0 {
		return strings.TrimSpace(doc.Text())
	}
	return b.String()
}
