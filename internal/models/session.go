package models

import (
	"time"

	"campusnav.org/internal/navigation"
)

// SessionEntry is a navigation session with its current status.
type SessionEntry struct {
	ID        string            `json:"id"`
	CreatedAt int64             `json:"createdAt"`
	Status    navigation.Status `json:"status"`
	Route     *RouteEntry       `json:"route,omitempty"`
}

func NewSessionEntry(id string, createdAt time.Time, status navigation.Status) SessionEntry {
	return SessionEntry{
		ID:        id,
		CreatedAt: createdAt.UnixMilli(),
		Status:    status,
	}
}

// Announcement is the latest utterance a client should play.
type Announcement struct {
	Seq      uint64  `json:"seq"`
	Text     string  `json:"text"`
	Volume   float64 `json:"volume"`
	Rate     float64 `json:"rate"`
	IssuedAt int64   `json:"issuedAt"`
}

func NewAnnouncement(seq uint64, text string, volume, rate float64, issuedAt time.Time) Announcement {
	return Announcement{
		Seq:      seq,
		Text:     text,
		Volume:   volume,
		Rate:     rate,
		IssuedAt: issuedAt.UnixMilli(),
	}
}
