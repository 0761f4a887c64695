package navigation

// Phase is the tracker lifecycle state.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseNavigating
	PhaseArrived
)

func (p Phase) String() string {
	switch p {
	case PhaseNavigating:
		return "navigating"
	case PhaseArrived:
		return "arrived"
	default:
		return "idle"
	}
}

// MarshalText renders the phase by name in JSON responses.
func (p Phase) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// NavigationState is owned by a Tracker and only mutated under its lock.
type NavigationState struct {
	phase         Phase
	stepIndex     int
	lastAnnounced string
	voiceEnabled  bool
}

func (s NavigationState) active() bool {
	return s.phase == PhaseNavigating
}

// Status is a read-only view for the status bar.
type Status struct {
	Phase            Phase     `json:"phase"`
	StepIndex        int       `json:"stepIndex"`
	StepCount        int       `json:"stepCount"`
	Instruction      string    `json:"instruction,omitempty"`
	Distance         float64   `json:"distanceMeters"`
	HasDistance      bool      `json:"hasDistance"`
	DistanceText     string    `json:"distanceText,omitempty"`
	Heading          string    `json:"heading,omitempty"`
	VoiceEnabled     bool      `json:"voiceEnabled"`
	LastAnnouncement string    `json:"lastAnnouncement,omitempty"`
	Destination      string    `json:"destination,omitempty"`
	Position         *Position `json:"position,omitempty"`
	Arrived          bool      `json:"arrived"`
}
