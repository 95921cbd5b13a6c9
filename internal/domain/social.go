package domain

import "time"

// Comment is a user's comment on an article.
type Comment struct {
	ID        string    `json:"id"`
	ArticleID string    `json:"article_id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Like marks that a user liked an article. The store keys likes by
// (article, user), so a user can hold at most one like per article.
type Like struct {
	ArticleID string    `json:"article_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Scrap is a user's bookmark of an article, optionally filed under one of
// the user's categories. Keyed by (article, user) like likes.
type Scrap struct {
	ArticleID  string    `json:"article_id"`
	UserID     string    `json:"user_id"`
	CategoryID string    `json:"category_id,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// SearchHistory holds a user's recent feed search terms, most recent first.
type SearchHistory struct {
	UserID string   `json:"user_id"`
	Terms  []string `json:"terms,omitempty"`
}

// MaxSearchTerms bounds the history length; older terms are evicted FIFO.
const MaxSearchTerms = 10

// Record prepends a term, de-duplicating and evicting the oldest entry once
// the list is full. Recording an existing term moves it to the front.
func (h *SearchHistory) Record(term string) {
	if term == "" {
		return
	}
	out := make([]string, 0, len(h.Terms)+1)
	out = append(out, term)
	for _, t := range h.Terms {
		if t == term {
			continue
		}
		out = append(out, t)
	}
	if len(out) > MaxSearchTerms {
		out = out[:MaxSearchTerms]
	}
	h.Terms = out
}
