package entity

import (
	"fmt"
	"strings"
)

// Candidate is a raw listing scraped from a feed. Lives for one scan pass.
type Candidate struct {
	Title  string
	Body   string
	URL    string
	Source string
}

// Describe renders the candidate for the extraction prompt.
func (c Candidate) Describe() string {
	return fmt.Sprintf(
		"Title: %s\nDetails: %s\nURL: %s",
		strings.TrimSpace(c.Title),
		strings.TrimSpace(c.Body),
		c.URL,
	)
}

// Feed is a named deal feed.
type Feed struct {
	Name string
	URL  string
}
