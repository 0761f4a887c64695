package navigation

// threshold is a one-shot distance band for the current step.
type threshold struct {
	distance float64
	fired    bool
}

// thresholdSet holds the announcement bands in descending order.
type thresholdSet [4]threshold

func newThresholdSet() thresholdSet {
	return thresholdSet{
		{distance: 1000},
		{distance: 500},
		{distance: 200},
		{distance: 50},
	}
}

func (ts *thresholdSet) reset() {
	*ts = newThresholdSet()
}

// evaluate marks every unfired band that distance has entered and reports
// whether the step instruction should be spoken. Bands whose range is large
// compared to the step itself (stepLength < 2*band) are consumed silently.
func (ts *thresholdSet) evaluate(distance, stepLength float64) bool {
	announce := false
	for i := range ts {
		t := &ts[i]
		if t.fired || distance > t.distance {
			continue
		}
		t.fired = true
		if stepLength < t.distance*2 {
			continue
		}
		announce = true
	}
	return announce
}
