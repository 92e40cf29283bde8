package feed

import (
	"slices"
	"strings"

	"deal_scout/internal/domain/entity"
)

// DefaultFeeds are the dealnews category feeds scanned when none are
// configured.
func DefaultFeeds() []entity.Feed {
	return []entity.Feed{
		{Name: "electronics", URL: "https://www.dealnews.com/c142/Electronics/?rss=1"},
		{Name: "computers", URL: "https://www.dealnews.com/c39/Computers/?rss=1"},
		{Name: "automotive", URL: "https://www.dealnews.com/c238/Automotive/?rss=1"},
		{Name: "smart-home", URL: "https://www.dealnews.com/f1912/Smart-Home/?rss=1"},
		{Name: "home-garden", URL: "https://www.dealnews.com/c196/Home-Garden/?rss=1"},
	}
}

// FeedsFromMap turns a name to URL mapping into feeds ordered by name.
// An empty mapping yields DefaultFeeds.
func FeedsFromMap(m map[string]string) []entity.Feed {
	if len(m) == 0 {
		return DefaultFeeds()
	}

	feeds := make([]entity.Feed, 0, len(m))
	for name, url := range m {
		feeds = append(feeds, entity.Feed{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}

	slices.SortFunc(feeds, func(a, b entity.Feed) int {
		return strings.Compare(a.Name, b.Name)
	})

	return feeds
}
