package domain

import "time"

// Category is a user-owned bucket for articles and scraps. Title is unique
// per owner. ArticleCount and ScrapCount are denormalized; deleting a
// category discards them along with the document and nulls the category
// reference on everything that pointed at it.
type Category struct {
	ID      string `json:"id"`
	OwnerID string `json:"owner_id"`
	Title   string `json:"title"`

	ArticleCount int `json:"article_count"`
	ScrapCount   int `json:"scrap_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
