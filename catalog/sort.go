package catalog

import (
	"slices"
	"strings"

	"film-map-cli/model"
)

var leadingArticles = []string{"A ", "The "}

// StripLeadingArticle drops one leading "A " or "The " from title.
// Matching is case-sensitive.
func StripLeadingArticle(title string) string {
	for _, article := range leadingArticles {
		if rest, ok := strings.CutPrefix(title, article); ok {
			return rest
		}
	}
	return title
}

// SortBy returns a stably sorted copy of items. Later keys break ties
// left by earlier ones.
func SortBy[T any](items []T, keys ...func(T) string) []T {
	out := append([]T(nil), items...)
	slices.SortStableFunc(out, func(a, b T) int {
		for _, key := range keys {
			if c := strings.Compare(key(a), key(b)); c != 0 {
				return c
			}
		}
		return 0
	})
	return out
}

func regionNameKey(f model.Film) string { return f.RegionName }

func titleSortKey(f model.Film) string { return StripLeadingArticle(f.Title) }

func titleKey(f model.Film) string { return f.Title }
