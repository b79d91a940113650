// Package session implements the assessment session controller: the screen
// state machine, the symptom-collection → prediction → results → history
// flow, and the per-user profile/history documents it keeps in sync.
package session

import "context"

// Profile is the per-user profile document. The password is transient input
// on registration and is never written to the document store.
type Profile struct {
	Name    string  `json:"name"`
	Age     int     `json:"age,omitempty"`
	Weight  float64 `json:"weight,omitempty"`
	Height  float64 `json:"height,omitempty"`
	Gender  string  `json:"gender,omitempty"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone,omitempty"`
	City    string  `json:"city,omitempty"`
	State   string  `json:"state,omitempty"`
	Country string  `json:"country,omitempty"`
	Photo   string  `json:"photo,omitempty"`
}

// RegistrationForm carries the transient registration input. Password and
// Confirm are validated client-side and handed to the identity service only.
type RegistrationForm struct {
	Profile  Profile
	Password string
	Confirm  string
}

// Account identifies the authenticated user for the duration of a session.
type Account struct {
	UID   string
	Email string
}

// Prediction is the response of the external prediction service. Diseases is
// rank-significant: index 0 is the primary indication.
type Prediction struct {
	Diseases   []string
	Precaution string
}

// HistoryEntry is one completed analysis. Entries are prepended to the
// history log, newest first.
type HistoryEntry struct {
	ID             string   `json:"id"`
	Date           string   `json:"date"`
	Time           string   `json:"time"`
	TopMatch       string   `json:"topMatch"`
	Symptoms       []string `json:"symptoms"`
	AllPredictions []string `json:"allPredictions"`
	Precautions    string   `json:"precautions"`
}

// Identity abstracts the external identity provider. Implementations:
// the remote HTTP backend and the local single-account store.
type Identity interface {
	// SignUp creates a new identity record together with its initial profile
	// and an empty history document. It does not establish a session.
	SignUp(ctx context.Context, email, password string, profile Profile) error
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignOut(ctx context.Context) error
	// ChangePassword re-authenticates with the current password before
	// applying the new one.
	ChangePassword(ctx context.Context, current, next string) error
	UpdateEmail(ctx context.Context, email string) error
}

// Store abstracts the per-user document store holding exactly two documents:
// the profile and the history log.
type Store interface {
	LoadProfile(ctx context.Context) (*Profile, error)
	// SaveProfile merge-writes the profile document.
	SaveProfile(ctx context.Context, p *Profile) error
	LoadHistory(ctx context.Context) ([]HistoryEntry, error)
	// SaveHistory replaces the stored history log in full.
	SaveHistory(ctx context.Context, entries []HistoryEntry) error
}

// Predictor abstracts the external prediction service.
type Predictor interface {
	Symptoms(ctx context.Context) ([]string, error)
	Predict(ctx context.Context, symptoms []string, userEmail string) (*Prediction, error)
}
