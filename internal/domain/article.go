package domain

import "time"

// ArticleKind discriminates the variants sharing the article collection.
type ArticleKind string

// Article kinds.
const (
	KindFree      ArticleKind = "free"
	KindChallenge ArticleKind = "challenge"
	KindRelay     ArticleKind = "relay"
)

// Valid reports whether k is a known kind.
func (k ArticleKind) Valid() bool {
	switch k {
	case KindFree, KindChallenge, KindRelay:
		return true
	}
	return false
}

// ArticleState is the lifecycle state of an article.
type ArticleState string

// Article lifecycle states.
const (
	StateDraft     ArticleState = "draft"
	StateSubmitted ArticleState = "submitted"
)

// Article is a single post. It is a tagged variant: the shared fields apply
// to every kind, PromptID/PromptDay only to challenge articles, and RelayID
// only to relay articles.
//
// Article IDs are time-sortable, so descending ID order is descending
// creation order, which is the feed's LATEST sort key.
type Article struct {
	ID       string       `json:"id"`
	AuthorID string       `json:"author_id"`
	Kind     ArticleKind  `json:"kind"`
	State    ArticleState `json:"state"`

	Title      string   `json:"title"`
	Body       string   `json:"body"`
	Tags       []string `json:"tags,omitempty"`
	CategoryID string   `json:"category_id,omitempty"`
	Public     bool     `json:"public"`

	// Denormalized aggregates, maintained by the store.
	LikeCount    int `json:"like_count"`
	CommentCount int `json:"comment_count"`
	ScrapCount   int `json:"scrap_count"`

	// Challenge-only fields.
	PromptID  string `json:"prompt_id,omitempty"`
	PromptDay string `json:"prompt_day,omitempty"` // DateLayout key of the prompt's day

	// Relay-only field.
	RelayID string `json:"relay_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Visible reports whether the article appears in the public feed.
func (a *Article) Visible() bool {
	return a.Public && a.State == StateSubmitted
}

// CountsForAuthor reports whether the article contributes to the author's
// public article count. Same predicate as Visible, named for the counter it
// drives.
func (a *Article) CountsForAuthor() bool {
	return a.Visible()
}

// FeedItem is an article with its author embedded, the shape returned by
// paginated feed queries.
type FeedItem struct {
	Article *Article      `json:"article"`
	Author  AuthorSummary `json:"author"`
}
