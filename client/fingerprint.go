package client

import (
	"sort"
	"strings"
	"time"
)

// Fingerprint reduces a page list to a cheap comparison value: every page
// contributes "id:updatedAt", the entries are sorted, and the result is
// joined. Two fetches with identical fingerprints are treated as the same
// list without comparing contents; the fingerprint says *that* something
// changed, never *what*.
func Fingerprint(pages []Page) string {
	entries := make([]string, 0, len(pages))
	for _, p := range pages {
		entries = append(entries, p.ID+":"+p.UpdatedAt.UTC().Format(time.RFC3339Nano))
	}
	sort.Strings(entries)
	return strings.Join(entries, ",")
}
