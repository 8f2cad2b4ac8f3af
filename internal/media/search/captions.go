package search

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"mediadepot/internal/media"
)

// searchCaptions is the in-memory path: captions are sentence-delimited
// free text and the match must be whole-word within a sentence, which LIKE
// cannot express. Exact-match filters still apply in SQL before the scan.
func (e *Engine) searchCaptions(ctx context.Context, p Params) (*Result, error) {
	filtered := p
	filtered.Query = ""
	filtered.Field = ""
	where, args, err := buildWhere(filtered)
	if err != nil {
		return nil, err
	}

	all, err := e.store.Select(ctx, p.Table, where, args, 0, 0)
	if err != nil {
		return nil, err
	}

	matcher, err := wholeWordMatcher(p.Query)
	if err != nil {
		return nil, err
	}

	matched := all[:0]
	for _, asset := range all {
		if captionMatches(asset.Captions, matcher) {
			matched = append(matched, asset)
		}
	}

	total := len(matched)
	totalPages := pageCount(total, p.PageSize)
	if err := checkPage(p.Page, totalPages); err != nil {
		return nil, err
	}

	start := (p.Page - 1) * p.PageSize
	var page []media.Asset
	if start >= 0 && start < total {
		page = matched[start:min(start+p.PageSize, total)]
	}

	return e.result(p, page, total, totalPages), nil
}

func wholeWordMatcher(term string) (*regexp.Regexp, error) {
	pattern := `(?i)\b` + regexp.QuoteMeta(strings.TrimSpace(term)) + `\b`
	matcher, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("compile caption matcher: %w", err)
	}
	return matcher, nil
}

// captionMatches splits the captions value into trimmed sentence fragments
// and reports whether any fragment contains the term as a whole word.
func captionMatches(captions string, matcher *regexp.Regexp) bool {
	for _, sentence := range strings.Split(captions, ".") {
		sentence = strings.TrimSpace(sentence)
		if sentence == "" {
			continue
		}
		if matcher.MatchString(sentence) {
			return true
		}
	}
	return false
}
