// Package session keeps navigation sessions driven by remote clients.
package session

import (
	"sync/atomic"
	"time"

	"campusnav.org/internal/navigation"
)

// Session pairs a tracker with the outbox its announcements go to.
type Session struct {
	ID        string
	CreatedAt time.Time
	Route     *navigation.Route
	Tracker   *navigation.Tracker
	Outbox    *Outbox

	lastActive atomic.Int64
}

// Touch marks the session as used at t.
func (s *Session) Touch(t time.Time) {
	s.lastActive.Store(t.UnixNano())
}

func (s *Session) LastActive() time.Time {
	return time.Unix(0, s.lastActive.Load())
}
