package navigation

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"campusnav.org/internal/logging"
	"campusnav.org/internal/utils"
)

const (
	// ManeuverRadiusMeters is how close a sample must get to a step end
	// before the maneuver counts as done.
	ManeuverRadiusMeters = 20.0

	// DefaultPreAnnounceDelay separates a completed maneuver from the
	// announcement of the following one.
	DefaultPreAnnounceDelay = 2 * time.Second
)

const (
	msgArrived       = "You have arrived at your destination."
	msgVoiceEnabled  = "Voice guidance enabled"
	msgGPSTrouble    = "Having trouble tracking your location. Please check your GPS signal."
	msgStartNoTarget = "Starting navigation."
)

// Option configures a Tracker.
type Option func(*Tracker)

// WithScheduler replaces the timer used for delayed announcements.
func WithScheduler(s Scheduler) Option {
	return func(t *Tracker) { t.scheduler = s }
}

// WithLogger sets the tracker logger.
func WithLogger(l *slog.Logger) Option {
	return func(t *Tracker) { t.logger = l }
}

// WithVoice sets the volume and rate passed to the speaker.
func WithVoice(v Voice) Option {
	return func(t *Tracker) { t.voice = v }
}

// WithPreAnnounceDelay sets the delay before the next step is announced.
func WithPreAnnounceDelay(d time.Duration) Option {
	return func(t *Tracker) { t.preAnnounceDelay = d }
}

// WithVoiceEnabled sets the initial voice guidance preference.
func WithVoiceEnabled(enabled bool) Option {
	return func(t *Tracker) { t.state.voiceEnabled = enabled }
}

// Tracker follows progress along a route and decides when to speak.
type Tracker struct {
	mu sync.Mutex

	speaker          Speaker
	scheduler        Scheduler
	logger           *slog.Logger
	voice            Voice
	preAnnounceDelay time.Duration

	state      NavigationState
	route      *Route
	thresholds thresholdSet
	position   *Position

	// run is bumped on every Start and Stop so callbacks from an earlier
	// run can tell they are stale.
	run         uint64
	pending     Task
	unsubscribe context.CancelFunc
	feed        uint64
	gpsWarned   bool
	arrived     bool
}

// NewTracker returns an idle tracker with voice guidance enabled.
func NewTracker(speaker Speaker, opts ...Option) *Tracker {
	t := &Tracker{
		speaker:          speaker,
		scheduler:        TimerScheduler(),
		logger:           slog.Default(),
		voice:            DefaultVoice(),
		preAnnounceDelay: DefaultPreAnnounceDelay,
		state:            NavigationState{voiceEnabled: true},
		thresholds:       newThresholdSet(),
	}
	for _, opt := range opts {
		opt(t)
	}
	t.logger = t.logger.With(slog.String("component", "navigation_tracker"))
	return t
}

// Start begins navigating route from initial and announces the first step.
// Any navigation already in progress is stopped first.
func (t *Tracker) Start(route *Route, initial Position) error {
	steps := route.Steps()
	if len(steps) == 0 {
		return ErrEmptyRoute
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.active() {
		t.stopLocked(true)
	}

	t.run++
	t.route = route
	t.state.phase = PhaseNavigating
	t.state.stepIndex = 0
	t.state.lastAnnounced = ""
	t.thresholds.reset()
	t.gpsWarned = false
	t.arrived = false
	p := initial
	t.position = &p

	first := ParseInstruction(steps[0].Instruction)
	intro := msgStartNoTarget
	if route.DestinationName != "" {
		intro = fmt.Sprintf("Starting navigation to %s.", route.DestinationName)
	}

	logging.LogOperation(t.logger, "navigation_started",
		slog.String("destination", route.DestinationName),
		slog.Int("steps", len(steps)))

	t.speakLocked(intro + " " + first)
	return nil
}

// UpdatePosition feeds a new sample. It does nothing unless navigating.
func (t *Tracker) UpdatePosition(p Position) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.active() {
		return
	}

	t.position = &p
	if t.gpsWarned {
		t.gpsWarned = false
		// Let the next outage be announced even if nothing was said since.
		if t.state.lastAnnounced == msgGPSTrouble {
			t.state.lastAnnounced = ""
		}
	}

	steps := t.route.Steps()
	if t.state.stepIndex >= len(steps) {
		t.state.phase = PhaseArrived
		t.arrived = true
		logging.LogOperation(t.logger, "navigation_arrived",
			slog.String("destination", t.route.DestinationName))
		t.speakLocked(msgArrived)
		t.stopLocked(false)
		return
	}

	step := steps[t.state.stepIndex]
	distance := utils.Haversine(p.Lat, p.Lng, step.EndLocation.Lat, step.EndLocation.Lng)

	if t.thresholds.evaluate(distance, step.DistanceMeters) {
		t.speakLocked(ParseInstruction(step.Instruction))
	}

	if distance < ManeuverRadiusMeters {
		t.advanceLocked()
	}
}

// ReportError records a geolocation failure. Navigation keeps going; the
// driver is warned once until a valid sample arrives again.
func (t *Tracker) ReportError(gerr *GeolocationError) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if !t.state.active() || gerr == nil {
		return
	}

	t.logger.Warn("geolocation error",
		slog.String("code", gerr.Code.String()),
		slog.String("message", gerr.Message))

	if t.gpsWarned {
		return
	}
	t.gpsWarned = true
	t.speakLocked(msgGPSTrouble)
}

// Stop ends navigation, silences speech and drops any pending announcement.
// It is safe to call at any time and more than once.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.state.phase == PhaseIdle && t.pending == nil && t.unsubscribe == nil {
		return
	}
	t.stopLocked(true)
}

// ToggleVoice flips voice guidance and returns the new setting. Muting
// forgets the last announcement so every unmute is confirmed aloud.
func (t *Tracker) ToggleVoice() bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.state.voiceEnabled = !t.state.voiceEnabled
	if t.state.voiceEnabled {
		t.speakLocked(msgVoiceEnabled)
	} else {
		t.speaker.Cancel()
		t.state.lastAnnounced = ""
	}
	return t.state.voiceEnabled
}

// Follow consumes samples until ctx ends, the feed closes or the tracker
// stops. Following a new feed releases the previous one.
func (t *Tracker) Follow(ctx context.Context, samples <-chan Sample) {
	ctx, cancel := context.WithCancel(ctx)

	t.mu.Lock()
	if t.unsubscribe != nil {
		t.unsubscribe()
	}
	t.feed++
	feed := t.feed
	t.unsubscribe = cancel
	t.mu.Unlock()

	defer func() {
		cancel()
		t.mu.Lock()
		if t.feed == feed {
			t.unsubscribe = nil
		}
		t.mu.Unlock()
	}()
	for {
		select {
		case <-ctx.Done():
			return
		case s, ok := <-samples:
			if !ok {
				return
			}
			if s.Err != nil {
				t.ReportError(s.Err)
			} else {
				t.UpdatePosition(s.Position)
			}
		}
	}
}

// Status returns the current status bar view.
func (t *Tracker) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	st := Status{
		Phase:            t.state.phase,
		StepIndex:        t.state.stepIndex,
		VoiceEnabled:     t.state.voiceEnabled,
		LastAnnouncement: t.state.lastAnnounced,
	}
	if t.route == nil {
		return st
	}

	steps := t.route.Steps()
	st.StepCount = len(steps)
	st.Destination = t.route.DestinationName
	st.Arrived = t.arrived
	if t.position != nil {
		p := *t.position
		st.Position = &p
	}

	if t.state.stepIndex < len(steps) {
		step := steps[t.state.stepIndex]
		st.Instruction = ParseInstruction(step.Instruction)
		if t.position != nil {
			st.Distance = utils.Haversine(t.position.Lat, t.position.Lng, step.EndLocation.Lat, step.EndLocation.Lng)
			st.HasDistance = true
			st.DistanceText = utils.FormatDistance(st.Distance)
			st.Heading = utils.CompassDirection(t.position.Lat, t.position.Lng, step.EndLocation.Lat, step.EndLocation.Lng)
		}
	}
	return st
}

func (t *Tracker) advanceLocked() {
	steps := t.route.Steps()
	t.state.stepIndex++
	t.thresholds.reset()

	logging.LogOperation(t.logger, "navigation_step_completed",
		slog.Int("step", t.state.stepIndex-1),
		slog.Int("remaining", len(steps)-t.state.stepIndex))

	if t.state.stepIndex >= len(steps) {
		return
	}

	next := steps[t.state.stepIndex]
	text := fmt.Sprintf("In %.1f kilometers, %s", next.DistanceMeters/1000, ParseInstruction(next.Instruction))
	t.scheduleLocked(text)
}

func (t *Tracker) scheduleLocked(text string) {
	if t.pending != nil {
		t.pending.Stop()
	}

	run := t.run
	var task Task
	task = t.scheduler.AfterFunc(t.preAnnounceDelay, func() {
		t.mu.Lock()
		defer t.mu.Unlock()

		if t.pending == task {
			t.pending = nil
		}
		if t.run != run || !t.state.active() {
			return
		}
		t.speakLocked(text)
	})
	t.pending = task
}

// stopLocked moves to Idle. cancelSpeech is false on arrival so the arrival
// message is not cut off.
func (t *Tracker) stopLocked(cancelSpeech bool) {
	wasActive := t.state.active() || t.state.phase == PhaseArrived

	t.run++
	t.state.phase = PhaseIdle
	if t.pending != nil {
		t.pending.Stop()
		t.pending = nil
	}
	if t.unsubscribe != nil {
		t.unsubscribe()
		t.unsubscribe = nil
	}
	if cancelSpeech {
		t.speaker.Cancel()
	}
	if wasActive {
		logging.LogOperation(t.logger, "navigation_stopped",
			slog.Int("step", t.state.stepIndex))
	}
}

func (t *Tracker) speakLocked(text string) {
	if !t.state.voiceEnabled || text == "" || text == t.state.lastAnnounced {
		return
	}

	t.speaker.Cancel()
	if err := t.speaker.Speak(text, t.voice.Volume, t.voice.Rate); err != nil {
		t.logger.Debug("speech failed", slog.String("error", err.Error()), slog.String("text", text))
		return
	}
	t.state.lastAnnounced = text
}
