package domain

import (
	"slices"
	"time"
)

// RelayNotice is a host announcement pinned to a relay room.
type RelayNotice struct {
	ID        string    `json:"id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

// Relay is a multi-author writing room. MemberCount mirrors len(MemberIDs);
// ArticleCount and LikeCount aggregate over the room's articles.
type Relay struct {
	ID     string   `json:"id"`
	Title  string   `json:"title"`
	Tags   []string `json:"tags,omitempty"`
	HostID string   `json:"host_id"`

	MemberIDs   []string `json:"member_ids"`
	Capacity    int      `json:"capacity"`
	MemberCount int      `json:"member_count"`

	ArticleCount int `json:"article_count"`
	LikeCount    int `json:"like_count"`

	Notices []RelayNotice `json:"notices,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsMember reports whether userID belongs to the relay.
func (r *Relay) IsMember(userID string) bool {
	return slices.Contains(r.MemberIDs, userID)
}

// IsFull reports whether the relay has reached capacity.
func (r *Relay) IsFull() bool {
	return r.Capacity > 0 && r.MemberCount >= r.Capacity
}

// AddMember appends a member and bumps the count. No-op if already a member.
func (r *Relay) AddMember(userID string) {
	if r.IsMember(userID) {
		return
	}
	r.MemberIDs = append(r.MemberIDs, userID)
	r.MemberCount++
}

// RemoveMember drops a member and decrements the count. No-op if absent.
func (r *Relay) RemoveMember(userID string) {
	idx := slices.Index(r.MemberIDs, userID)
	if idx < 0 {
		return
	}
	r.MemberIDs = slices.Delete(r.MemberIDs, idx, idx+1)
	if r.MemberCount > 0 {
		r.MemberCount--
	}
}
