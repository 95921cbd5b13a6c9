// Package domain contains the core entities for the Inkwell service.
package domain

import (
	"slices"
	"time"
)

// DateLayout is the canonical format for calendar-day stamps.
// Days are compared as strings, so the layout must sort lexicographically.
const DateLayout = "2006-01-02"

// DayKey returns the calendar-day stamp for t in the given location.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(DateLayout)
}

// User represents a registered account.
//
// FollowerCount, ArticleCount, and StampCount are denormalized aggregates
// maintained by the store alongside the state transitions that change them;
// they are never recomputed at read time.
type User struct {
	ID           string `json:"id"`
	Email        string `json:"email"`
	Nickname     string `json:"nickname"`
	PasswordHash string `json:"password_hash"`

	// Subscriptions this user follows, by user ID.
	Subscribed []string `json:"subscribed,omitempty"`
	// Number of users following this user.
	FollowerCount int `json:"follower_count"`

	// Count of this user's public submitted articles.
	ArticleCount int `json:"article_count"`

	// Challenge bookkeeping.
	StampCount int      `json:"stamp_count"`
	DailyDone  bool     `json:"daily_done"`
	StampDates []string `json:"stamp_dates,omitempty"` // DateLayout keys of completed days

	// Categories owned by this user, in display order.
	CategoryIDs []string `json:"category_ids,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsSubscribedTo reports whether the user follows targetID.
func (u *User) IsSubscribedTo(targetID string) bool {
	return slices.Contains(u.Subscribed, targetID)
}

// HasStamp reports whether the user completed the challenge on the given day.
func (u *User) HasStamp(day string) bool {
	return slices.Contains(u.StampDates, day)
}

// AddStamp records a completed challenge day and bumps the stamp count.
// Adding a day twice is a no-op.
func (u *User) AddStamp(day string) {
	if u.HasStamp(day) {
		return
	}
	u.StampDates = append(u.StampDates, day)
	u.StampCount++
}

// RemoveStamp drops a completed challenge day and decrements the stamp count.
func (u *User) RemoveStamp(day string) {
	idx := slices.Index(u.StampDates, day)
	if idx < 0 {
		return
	}
	u.StampDates = slices.Delete(u.StampDates, idx, idx+1)
	if u.StampCount > 0 {
		u.StampCount--
	}
}

// AuthorSummary is the denormalized author shape embedded in feed items.
type AuthorSummary struct {
	ID            string `json:"id"`
	Nickname      string `json:"nickname"`
	StampCount    int    `json:"stamp_count"`
	FollowerCount int    `json:"follower_count"`
}

// Summary returns the embeddable author shape for this user.
func (u *User) Summary() AuthorSummary {
	return AuthorSummary{
		ID:            u.ID,
		Nickname:      u.Nickname,
		StampCount:    u.StampCount,
		FollowerCount: u.FollowerCount,
	}
}
