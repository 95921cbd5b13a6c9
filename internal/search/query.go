package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/inkwell-app/inkwell-server/internal/domain"
)

// maxMatches caps how many IDs a single feed search resolves. The feed only
// ever serves pages of a fixed size, so an enormous candidate set just
// wastes memory.
const maxMatches = 1000

// MatchIDs resolves a free-text query into the set of article IDs whose
// title, body, or tags match. The feed store intersects this set with its
// visibility and filter rules.
func (s *Index) MatchIDs(ctx context.Context, q string) (map[string]bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	q = strings.TrimSpace(q)
	if q == "" {
		return nil, nil
	}

	searchRequest := bleve.NewSearchRequestOptions(buildArticleQuery(q), maxMatches, 0, false)

	result, err := s.index.SearchInContext(ctx, searchRequest)
	if err != nil {
		return nil, fmt.Errorf("execute search: %w", err)
	}

	ids := make(map[string]bool, len(result.Hits))
	for _, hit := range result.Hits {
		ids[hit.ID] = true
	}
	return ids, nil
}

// buildArticleQuery combines match, prefix, and fuzzy queries so partial and
// slightly misspelled terms still land.
func buildArticleQuery(q string) query.Query {
	matchTitle := bleve.NewMatchQuery(q)
	matchTitle.SetField("title")
	matchTitle.SetBoost(3.0)

	matchBody := bleve.NewMatchQuery(q)
	matchBody.SetField("body")

	prefixTitle := bleve.NewPrefixQuery(strings.ToLower(q))
	prefixTitle.SetField("title")
	prefixTitle.SetBoost(2.0)

	fuzzyTitle := bleve.NewFuzzyQuery(q)
	fuzzyTitle.SetField("title")
	fuzzyTitle.SetFuzziness(1)

	tagQuery := bleve.NewTermQuery(q)
	tagQuery.SetField("tags")
	tagQuery.SetBoost(2.0)

	return bleve.NewDisjunctionQuery(matchTitle, matchBody, prefixTitle, fuzzyTitle, tagQuery)
}

// IndexArticle satisfies the store's indexer hook.
func (s *Index) IndexArticle(a *domain.Article) error {
	return s.IndexDocument(FromArticle(a))
}

// RemoveArticle satisfies the store's indexer hook.
func (s *Index) RemoveArticle(id string) error {
	return s.DeleteDocument(id)
}
