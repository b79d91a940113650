package session

// Screen is the current UI screen of the session.
type Screen int

const (
	ScreenLogin Screen = iota
	ScreenHome
	ScreenSymptoms
	ScreenLoading
	ScreenResults
	ScreenProfile
	ScreenHistory
)

func (s Screen) String() string {
	switch s {
	case ScreenLogin:
		return "login"
	case ScreenHome:
		return "home"
	case ScreenSymptoms:
		return "symptoms"
	case ScreenLoading:
		return "loading"
	case ScreenResults:
		return "results"
	case ScreenProfile:
		return "profile"
	case ScreenHistory:
		return "history"
	default:
		return "unknown"
	}
}

// Event is a screen-transition trigger.
type Event int

const (
	EventLoggedIn Event = iota
	EventStartAssessment
	EventAnalyzeStarted
	EventPredictionReceived
	EventPredictionFailed
	EventReturnHome
	EventOpenProfile
	EventOpenHistory
	EventSessionLost
)

// transition enumerates all legal (screen, event) pairs. Anything not listed
// leaves the screen unchanged and reports false.
func transition(s Screen, e Event) (Screen, bool) {
	// Session loss forces the login screen from anywhere.
	if e == EventSessionLost {
		return ScreenLogin, true
	}

	switch s {
	case ScreenLogin:
		if e == EventLoggedIn {
			return ScreenHome, true
		}
	case ScreenHome:
		switch e {
		case EventStartAssessment:
			return ScreenSymptoms, true
		case EventOpenProfile:
			return ScreenProfile, true
		case EventOpenHistory:
			return ScreenHistory, true
		}
	case ScreenSymptoms:
		switch e {
		case EventAnalyzeStarted:
			return ScreenLoading, true
		case EventReturnHome:
			return ScreenHome, true
		}
	case ScreenLoading:
		switch e {
		case EventPredictionReceived:
			return ScreenResults, true
		case EventPredictionFailed:
			return ScreenSymptoms, true
		}
	case ScreenResults, ScreenProfile, ScreenHistory:
		if e == EventReturnHome {
			return ScreenHome, true
		}
	}

	return s, false
}
