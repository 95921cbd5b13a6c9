// Package search provides full-text search over articles using Bleve.
// The feed handler uses it to resolve a free-text query into a set of
// article IDs, which the store then filters and paginates.
package search

import (
	"github.com/inkwell-app/inkwell-server/internal/domain"
)

// ArticleDocument is the shape indexed per article. Body text is searchable
// but not stored; the store remains the source of truth for content.
type ArticleDocument struct {
	ID    string   `json:"id"`
	Title string   `json:"title"`
	Body  string   `json:"body"`
	Tags  []string `json:"tags,omitempty"`
	Kind  string   `json:"kind"`

	CreatedAt int64 `json:"created_at"` // Unix millis
}

// FromArticle builds the indexable document for an article.
func FromArticle(a *domain.Article) *ArticleDocument {
	return &ArticleDocument{
		ID:        a.ID,
		Title:     a.Title,
		Body:      a.Body,
		Tags:      a.Tags,
		Kind:      string(a.Kind),
		CreatedAt: a.CreatedAt.UnixMilli(),
	}
}

// ToMap converts the document to a map with lowercase field names so they
// match the index mapping. Bleve would otherwise use the capitalized Go
// field names.
func (d *ArticleDocument) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":         d.ID,
		"title":      d.Title,
		"body":       d.Body,
		"tags":       d.Tags,
		"kind":       d.Kind,
		"created_at": d.CreatedAt,
	}
}
