package feed

import (
	"bytes"
	"fmt"
	"html"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/microcosm-cc/bluemonday"
	xhtml "golang.org/x/net/html"
)

const (
	contentClass   = "content-section"
	featuresMarker = "Features"
	maxDetailRunes = 4000
)

// pageText pulls the product description out of a deal page. The
// description lives in the first element with the content-section class;
// everything after the "Features" heading is returned separately.
func pageText(page []byte, md *converter.Converter) (details, features string, err error) {
	doc, err := xhtml.Parse(bytes.NewReader(page))
	if err != nil {
		return "", "", fmt.Errorf("html.Parse: %w", err)
	}

	node := findByClass(doc, contentClass)
	if node == nil {
		return "", "", fmt.Errorf("no %s element", contentClass)
	}

	var buf bytes.Buffer
	if err = xhtml.Render(&buf, node); err != nil {
		return "", "", fmt.Errorf("html.Render: %w", err)
	}

	text, err := md.ConvertString(buf.String())
	if err != nil {
		return "", "", fmt.Errorf("md.ConvertString: %w", err)
	}

	details, features, _ = strings.Cut(text, featuresMarker)

	// Drop the markdown heading marks left in front of the cut.
	details = strings.TrimRight(details, "#* \n\t")

	return truncate(strings.TrimSpace(details)), truncate(strings.TrimSpace(features)), nil
}

func findByClass(n *xhtml.Node, class string) *xhtml.Node {
	if n.Type == xhtml.ElementNode && hasClass(n, class) {
		return n
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByClass(c, class); found != nil {
			return found
		}
	}

	return nil
}

func hasClass(n *xhtml.Node, class string) bool {
	for _, a := range n.Attr {
		if a.Key != "class" {
			continue
		}
		for _, c := range strings.Fields(a.Val) {
			if c == class {
				return true
			}
		}
	}
	return false
}

// plainText strips every tag from a feed summary and collapses whitespace.
func plainText(p *bluemonday.Policy, s string) string {
	return strings.Join(strings.Fields(html.UnescapeString(p.Sanitize(s))), " ")
}

func truncate(s string) string {
	r := []rune(s)
	if len(r) <= maxDetailRunes {
		return s
	}
	return string(r[:maxDetailRunes])
}
