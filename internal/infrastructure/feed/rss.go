package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"
)

// entry is one item of an RSS 2.0 or Atom 1.0 feed.
type entry struct {
	Title   string
	Link    string
	Summary string
}

type rssRoot struct {
	XMLName xml.Name   `xml:"rss"`
	Channel rssChannel `xml:"channel"`
}

type rssChannel struct {
	Items []rssItem `xml:"item"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	Description string `xml:"description"`
}

type atomRoot struct {
	XMLName xml.Name    `xml:"feed"`
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string     `xml:"title"`
	Links   []atomLink `xml:"link"`
	Summary string     `xml:"summary"`
	Content string     `xml:"content"`
}

type atomLink struct {
	Href string `xml:"href,attr"`
	Rel  string `xml:"rel,attr"`
}

func parseFeed(data []byte) ([]entry, error) {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return nil, fmt.Errorf("feed: empty document")
	}

	switch rootElement(data) {
	case "rss", "rdf":
		return parseRSS(data)
	case "feed":
		return parseAtom(data)
	default:
		return nil, fmt.Errorf("feed: unknown format, expected <rss> or <feed>")
	}
}

func rootElement(data []byte) string {
	d := xml.NewDecoder(bytes.NewReader(data))
	d.Strict = false

	for {
		tok, err := d.Token()
		if err != nil {
			return ""
		}
		if se, ok := tok.(xml.StartElement); ok {
			return strings.ToLower(se.Name.Local)
		}
	}
}

func parseRSS(data []byte) ([]entry, error) {
	var root rssRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("xml.Unmarshal(rss): %w", err)
	}

	entries := make([]entry, 0, len(root.Channel.Items))
	for _, item := range root.Channel.Items {
		entries = append(entries, entry{
			Title:   strings.TrimSpace(item.Title),
			Link:    strings.TrimSpace(item.Link),
			Summary: strings.TrimSpace(item.Description),
		})
	}

	return entries, nil
}

func parseAtom(data []byte) ([]entry, error) {
	var root atomRoot
	if err := xml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("xml.Unmarshal(atom): %w", err)
	}

	entries := make([]entry, 0, len(root.Entries))
	for _, e := range root.Entries {
		summary := strings.TrimSpace(e.Summary)
		if summary == "" {
			summary = strings.TrimSpace(e.Content)
		}

		entries = append(entries, entry{
			Title:   strings.TrimSpace(e.Title),
			Link:    atomEntryLink(e.Links),
			Summary: summary,
		})
	}

	return entries, nil
}

func atomEntryLink(links []atomLink) string {
	for _, l := range links {
		if l.Rel == "alternate" || l.Rel == "" {
			return strings.TrimSpace(l.Href)
		}
	}
	if len(links) > 0 {
		return strings.TrimSpace(links[0].Href)
	}
	return ""
}
