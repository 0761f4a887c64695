package navigation

import (
	"sync"
	"time"

	"campusnav.org/internal/utils"
)

// Senate building on a campus; step ends are placed due north of it.
const (
	baseLat = 6.5158
	baseLng = 3.3898
)

type recordingSpeaker struct {
	mu      sync.Mutex
	spoken  []string
	cancels int
	fail    bool
}

func (s *recordingSpeaker) Speak(text string, volume, rate float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail {
		return ErrSpeechUnavailable
	}
	s.spoken = append(s.spoken, text)
	return nil
}

func (s *recordingSpeaker) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancels++
}

func (s *recordingSpeaker) Spoken() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.spoken...)
}

func (s *recordingSpeaker) count(text string) int {
	n := 0
	for _, said := range s.Spoken() {
		if said == text {
			n++
		}
	}
	return n
}

// manualScheduler only runs callbacks when Fire is called.
type manualScheduler struct {
	mu         sync.Mutex
	tasks      []*manualTask
	ignoreStop bool
}

type manualTask struct {
	delay   time.Duration
	f       func()
	stopped bool
	fired   bool
	sched   *manualScheduler
}

func (s *manualScheduler) AfterFunc(d time.Duration, f func()) Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	task := &manualTask{delay: d, f: f, sched: s}
	s.tasks = append(s.tasks, task)
	return task
}

func (t *manualTask) Stop() bool {
	t.sched.mu.Lock()
	defer t.sched.mu.Unlock()
	if t.fired || t.stopped {
		return false
	}
	if !t.sched.ignoreStop {
		t.stopped = true
	}
	return true
}

// Fire runs every task that is neither stopped nor already fired.
func (s *manualScheduler) Fire() int {
	s.mu.Lock()
	var due []*manualTask
	for _, task := range s.tasks {
		if !task.stopped && !task.fired {
			task.fired = true
			due = append(due, task)
		}
	}
	s.mu.Unlock()

	for _, task := range due {
		task.f()
	}
	return len(due)
}

func (s *manualScheduler) pending() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, task := range s.tasks {
		if !task.stopped && !task.fired {
			n++
		}
	}
	return n
}

// southOf returns a position the given distance due south of a point.
func southOf(lat, lng, meters float64) Position {
	return Position{LatLng: LatLng{Lat: utils.OffsetNorth(lat, -meters), Lng: lng}}
}

// twoStepRoute ends step 0 at the base point and step 1 a kilometer north of it.
func twoStepRoute(firstStepLength float64) *Route {
	return &Route{
		DestinationName: "Senate Building",
		Legs: []Leg{{
			Steps: []Step{
				{
					Instruction:    "Head <b>north</b> on Campus Rd",
					EndLocation:    LatLng{Lat: baseLat, Lng: baseLng},
					DistanceMeters: firstStepLength,
				},
				{
					Instruction:    "Turn <b>left</b> onto Library Way<div style=\"font-size:0.9em\">Destination will be on the right</div>",
					EndLocation:    LatLng{Lat: utils.OffsetNorth(baseLat, 1200), Lng: baseLng},
					DistanceMeters: 1200,
				},
			},
		}},
	}
}

func newTestTracker(opts ...Option) (*Tracker, *recordingSpeaker, *manualScheduler) {
	speaker := &recordingSpeaker{}
	sched := &manualScheduler{}
	opts = append([]Option{WithScheduler(sched)}, opts...)
	return NewTracker(speaker, opts...), speaker, sched
}

func (ts *thresholdSet) firedCount() int {
	n := 0
	for _, t := range ts {
		if t.fired {
			n++
		}
	}
	return n
}
