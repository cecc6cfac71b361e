package models

import (
	"errors"
	"strings"
)

// Categories is the fixed ordered set of post categories.
var Categories = []string{"扩列", "吐槽", "表白", "提问", "其它"}

const (
	// DefaultCategory is assigned when a post carries no category.
	DefaultCategory = "其它"
	// LatestCategory is a virtual filter value meaning "no filter".
	LatestCategory = "最新"
)

// ErrUnknownCategory rejects values outside the fixed set.
var ErrUnknownCategory = errors.New("unknown category")

// NormalizeCategory resolves a write-path category: trimmed, with empty or
// absent input falling back to the default. The result is always a concrete
// member of the fixed set.
func NormalizeCategory(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return DefaultCategory, nil
	}
	for _, c := range Categories {
		if trimmed == c {
			return trimmed, nil
		}
	}
	return "", ErrUnknownCategory
}

// NormalizeCategoryFilter resolves a query-path category filter. Empty input
// and the virtual "latest" value both mean "no filter" and return "". Unlike
// the write path, no default category is ever forced onto a listing.
func NormalizeCategoryFilter(input string) (string, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" || trimmed == LatestCategory {
		return "", nil
	}
	for _, c := range Categories {
		if trimmed == c {
			return trimmed, nil
		}
	}
	return "", ErrUnknownCategory
}
