package invite

import (
	"sort"
	"strings"
)

// Channel is the slice of channel data the selector works with.
type Channel struct {
	ID         string
	Name       string
	Visibility string
}

// Selection is a toggleable set of channel identifiers.
type Selection struct {
	ids map[string]bool
}

func NewSelection() *Selection {
	return &Selection{ids: make(map[string]bool)}
}

// Toggle adds the channel if absent, removes it if present.
func (s *Selection) Toggle(channelID string) {
	if s.ids[channelID] {
		delete(s.ids, channelID)
		return
	}
	s.ids[channelID] = true
}

func (s *Selection) Has(channelID string) bool {
	return s.ids[channelID]
}

func (s *Selection) Len() int {
	return len(s.ids)
}

// IDs returns the selected channel IDs in stable order.
func (s *Selection) IDs() []string {
	ids := make([]string, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// FilterPrivate keeps only private channels whose name contains the query,
// compared case-insensitively. The input slice is not modified.
func FilterPrivate(channels []Channel, query string) []Channel {
	query = strings.ToLower(query)
	var out []Channel
	for _, ch := range channels {
		if ch.Visibility != "private" {
			continue
		}
		if query != "" && !strings.Contains(strings.ToLower(ch.Name), query) {
			continue
		}
		out = append(out, ch)
	}
	return out
}
