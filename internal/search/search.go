// Package search provides fuzzy title matching over the browser's filter
// scope: the folders and bookmarks visible from the current location.
package search

import (
	"github.com/sahilm/fuzzy"

	"github.com/nikbrunner/marks/internal/model"
)

// Source is the set of entities one query runs over.
type Source struct {
	Folders   []model.Folder
	Bookmarks []model.Bookmark
}

// Result is a single match. Exactly one of Folder and Bookmark is set.
type Result struct {
	Folder         *model.Folder
	Bookmark       *model.Bookmark
	MatchedIndexes []int
	Score          int
}

// titles implements fuzzy.Source over the folder names followed by the
// bookmark titles, so one pass ranks both kinds together.
type titles struct {
	src *Source
}

func (t titles) String(i int) string {
	if i < len(t.src.Folders) {
		return t.src.Folders[i].Name
	}
	return t.src.Bookmarks[i-len(t.src.Folders)].Title
}

func (t titles) Len() int {
	return len(t.src.Folders) + len(t.src.Bookmarks)
}

// Fuzzy matches folders and bookmarks by name, best first.
func Fuzzy(src Source, query string) []Result {
	if query == "" {
		return nil
	}

	matches := fuzzy.FindFrom(query, titles{&src})

	results := make([]Result, len(matches))
	for i, m := range matches {
		r := Result{MatchedIndexes: m.MatchedIndexes, Score: m.Score}
		if m.Index < len(src.Folders) {
			r.Folder = &src.Folders[m.Index]
		} else {
			r.Bookmark = &src.Bookmarks[m.Index-len(src.Folders)]
		}
		results[i] = r
	}

	return results
}
