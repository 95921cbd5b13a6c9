package store

import (
	"context"
	"time"
)

// DeleteExpiredSessions removes refresh sessions past their expiry and
// returns how many were dropped. Called periodically by the cleanup job.
func (s *Store) DeleteExpiredSessions(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	now := time.Now()
	var expired []string
	for sess, err := range s.Sessions.List(ctx) {
		if err != nil {
			return 0, err
		}
		if sess.Expired(now) {
			expired = append(expired, sess.ID)
		}
	}

	for _, id := range expired {
		if err := s.Sessions.Delete(ctx, id); err != nil {
			return 0, err
		}
	}
	return len(expired), nil
}
