package session

import (
	"log/slog"
	"sync"
	"time"

	"campusnav.org/internal/logging"
)

// Announcement is one utterance queued for a remote client.
type Announcement struct {
	Seq      uint64    `json:"seq"`
	Text     string    `json:"text"`
	Volume   float64   `json:"volume"`
	Rate     float64   `json:"rate"`
	IssuedAt time.Time `json:"issuedAt"`
}

// Outbox is a navigation.Speaker holding at most one announcement. A client
// polls it and plays whatever is newer than what it already played.
type Outbox struct {
	mu      sync.Mutex
	seq     uint64
	current *Announcement
	logger  *slog.Logger
	now     func() time.Time
}

func NewOutbox(logger *slog.Logger) *Outbox {
	if logger == nil {
		logger = slog.Default()
	}
	return &Outbox{
		logger: logger.With(slog.String("component", "speech_outbox")),
		now:    time.Now,
	}
}

// Speak replaces whatever is in the slot.
func (o *Outbox) Speak(text string, volume, rate float64) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	o.seq++
	o.current = &Announcement{
		Seq:      o.seq,
		Text:     text,
		Volume:   volume,
		Rate:     rate,
		IssuedAt: o.now(),
	}
	logging.LogOperation(o.logger, "announcement",
		slog.Uint64("seq", o.seq),
		slog.String("text", text))
	return nil
}

// Cancel clears the slot.
func (o *Outbox) Cancel() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.current = nil
}

// Latest returns the pending announcement if its sequence is after the given one.
func (o *Outbox) Latest(after uint64) (Announcement, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.current == nil || o.current.Seq <= after {
		return Announcement{}, false
	}
	return *o.current, true
}
