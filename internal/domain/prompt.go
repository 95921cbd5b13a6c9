package domain

import "time"

// Prompt is a daily writing topic. Exactly one prompt is active on a given
// calendar day: the one whose ActiveDay equals that day's stamp. Used
// prompts are never re-selected.
type Prompt struct {
	ID      string `json:"id"`
	Content string `json:"content"`

	Used      bool   `json:"used"`
	ActiveDay string `json:"active_day,omitempty"` // DateLayout key, set when selected

	CreatedAt time.Time `json:"created_at"`
}

// ActiveOn reports whether the prompt was the active prompt on the given day.
func (p *Prompt) ActiveOn(day string) bool {
	return p.Used && p.ActiveDay == day
}
