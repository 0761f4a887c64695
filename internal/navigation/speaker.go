package navigation

import (
	"log/slog"

	"campusnav.org/internal/logging"
)

// Speaker is the speech synthesis boundary. A Speak call supersedes any
// utterance in progress; Cancel silences the current one.
type Speaker interface {
	Speak(text string, volume, rate float64) error
	Cancel()
}

// Voice holds the synthesis parameters passed to the Speaker.
type Voice struct {
	Volume float64
	Rate   float64
}

// DefaultVoice is full volume at normal speaking rate.
func DefaultVoice() Voice {
	return Voice{Volume: 1.0, Rate: 1.0}
}

// LogSpeaker writes announcements to a structured logger. It is used where
// no audio device exists, for example in the simulator.
type LogSpeaker struct {
	Logger *slog.Logger
}

func (s LogSpeaker) Speak(text string, volume, rate float64) error {
	logging.LogOperation(s.Logger, "announcement",
		slog.String("text", text),
		slog.Float64("volume", volume),
		slog.Float64("rate", rate),
		slog.String("component", "speech"))
	return nil
}

func (s LogSpeaker) Cancel() {}

// MuteSpeaker reports that speech is unavailable for every call.
type MuteSpeaker struct{}

func (MuteSpeaker) Speak(string, float64, float64) error { return ErrSpeechUnavailable }

func (MuteSpeaker) Cancel() {}
