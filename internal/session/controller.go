package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"medai/internal/common"
	"medai/internal/logging"

	"github.com/google/uuid"
)

const (
	// DefaultHistoryLimit caps the history log; oldest entries are evicted.
	DefaultHistoryLimit = 10
	// DefaultPredictTimeout bounds the wait for a prediction response.
	DefaultPredictTimeout = 60 * time.Second
	// DefaultPhotoLimit is the ceiling (in bytes) for an encoded profile photo.
	DefaultPhotoLimit = 1_000_000
	// noticeTTL is how long a transient notification stays visible.
	noticeTTL = 3 * time.Second

	minPasswordLen     = 6
	defaultPrecautions = "Consult a healthcare professional."
)

// Controller drives a single user session: the current screen, the data each
// screen renders, and the assessment flow. All collaborators are injected so
// tests can substitute fakes.
type Controller struct {
	identity  Identity
	store     Store
	predictor Predictor
	logger    logging.Logger

	// test seams
	now   func() time.Time
	newID func() string

	historyLimit   int
	predictTimeout time.Duration
	photoLimit     int

	screen       Screen
	registerMode bool
	account      *Account
	profile      Profile
	catalog      []string
	selected     map[string]bool
	results      []string
	precautions  string
	history      []HistoryEntry

	errMsg       string
	notice       string
	noticeExpiry time.Time
}

// NewController returns a controller in the login screen with default limits.
func NewController(identity Identity, store Store, predictor Predictor, logger logging.Logger) *Controller {
	return &Controller{
		identity:       identity,
		store:          store,
		predictor:      predictor,
		logger:         logger.With("module", "session"),
		now:            time.Now,
		newID:          uuid.NewString,
		historyLimit:   DefaultHistoryLimit,
		predictTimeout: DefaultPredictTimeout,
		photoLimit:     DefaultPhotoLimit,
		screen:         ScreenLogin,
		selected:       map[string]bool{},
	}
}

// SetHistoryLimit overrides the history cap (older deployments used 5).
func (c *Controller) SetHistoryLimit(n int) {
	if n > 0 {
		c.historyLimit = n
	}
}

// SetPredictTimeout overrides the prediction wait bound.
func (c *Controller) SetPredictTimeout(d time.Duration) {
	if d > 0 {
		c.predictTimeout = d
	}
}

// apply performs a screen transition and reports whether it was legal.
func (c *Controller) apply(e Event) bool {
	next, ok := transition(c.screen, e)
	if ok {
		c.screen = next
	}
	return ok
}

func (c *Controller) Screen() Screen          { return c.screen }
func (c *Controller) RegisterMode() bool      { return c.registerMode }
func (c *Controller) Account() *Account       { return c.account }
func (c *Controller) Profile() Profile        { return c.profile }
func (c *Controller) Catalog() []string       { return c.catalog }
func (c *Controller) Results() []string       { return c.results }
func (c *Controller) Precautions() string     { return c.precautions }
func (c *Controller) History() []HistoryEntry { return c.history }

// ErrorMessage returns the last surfaced error and clears it.
func (c *Controller) ErrorMessage() string {
	msg := c.errMsg
	c.errMsg = ""
	return msg
}

// Notice returns the current transient notification, or "" once it expired.
func (c *Controller) Notice() string {
	if c.notice != "" && c.now().After(c.noticeExpiry) {
		c.notice = ""
	}
	return c.notice
}

func (c *Controller) setError(msg string) { c.errMsg = msg }

func (c *Controller) setNotice(msg string) {
	c.notice = msg
	c.noticeExpiry = c.now().Add(noticeTTL)
}

// BMI returns the profile BMI and its category. ok is false when weight or
// height is missing.
func (c *Controller) BMI() (value float64, label string, ok bool) {
	v, ok := ComputeBMI(c.profile.Weight, c.profile.Height)
	if !ok {
		return 0, "", false
	}
	return v, ClassifyBMI(v), true
}

// LoadCatalog fetches the symptom catalog once at session start. Any failure
// falls back to the fixed built-in list; the catalog is then immutable for
// the session.
func (c *Controller) LoadCatalog(ctx context.Context) {
	symptoms, err := c.predictor.Symptoms(ctx)
	if err != nil || len(symptoms) == 0 {
		if err != nil {
			c.logger.Warn(ctx, "symptom catalog fetch failed, using fallback", "error", err)
		}
		symptoms = FallbackSymptoms
	}
	c.catalog = symptoms
}

// ToggleRegisterMode switches the login screen between its login and
// registration forms. It does not change the screen state.
func (c *Controller) ToggleRegisterMode() {
	if c.screen == ScreenLogin {
		c.registerMode = !c.registerMode
	}
}

// Login authenticates and then loads the user's profile and history. The app
// refuses to operate with an authenticated-but-dataless identity: if the data
// cannot be loaded or recovered, the user is signed out again.
func (c *Controller) Login(ctx context.Context, email, password string) error {
	account, err := c.identity.SignIn(ctx, email, password)
	if err != nil {
		c.setError("Invalid credentials. Please check your email and password.")
		return err
	}
	c.account = account

	if err := c.loadUserData(ctx); err != nil {
		c.forceSignOut(ctx)
		return err
	}

	c.apply(EventLoggedIn)
	return nil
}

// loadUserData fetches the profile and history documents. A missing profile
// is recovered once by writing a default document; a missing history log is
// initialised best-effort.
func (c *Controller) loadUserData(ctx context.Context) error {
	profile, err := c.store.LoadProfile(ctx)
	switch {
	case err == nil:
		c.profile = *profile
	case errors.Is(err, common.ErrorNotFound):
		c.logger.Warn(ctx, "profile document missing, attempting auto-recovery")
		recovered := Profile{
			Name:  strings.SplitN(c.account.Email, "@", 2)[0],
			Email: c.account.Email,
		}
		if err := c.store.SaveProfile(ctx, &recovered); err != nil {
			c.setError("Profile synchronization failed. Please login again.")
			return err
		}
		c.profile = recovered
	default:
		c.setError("Connection interrupted. Please login again.")
		return err
	}

	history, err := c.store.LoadHistory(ctx)
	switch {
	case err == nil:
		c.history = history
	case errors.Is(err, common.ErrorNotFound):
		c.history = nil
		if err := c.store.SaveHistory(ctx, []HistoryEntry{}); err != nil {
			c.logger.Warn(ctx, "could not initialise history document", "error", err)
		}
	default:
		c.setError("Connection interrupted. Please login again.")
		return err
	}

	return nil
}

// forceSignOut invalidates the session and returns to the login screen.
func (c *Controller) forceSignOut(ctx context.Context) {
	if err := c.identity.SignOut(ctx); err != nil {
		c.logger.Warn(ctx, "sign-out failed", "error", err)
	}
	c.reset()
	c.apply(EventSessionLost)
}

func (c *Controller) reset() {
	c.account = nil
	c.profile = Profile{}
	c.selected = map[string]bool{}
	c.results = nil
	c.precautions = ""
	c.history = nil
}

// Register validates the registration form and creates the identity record
// together with its initial documents. Validation failures never reach the
// identity service. On success the user stays on the login form and must log
// in explicitly.
func (c *Controller) Register(ctx context.Context, form RegistrationForm) error {
	email := strings.TrimSpace(form.Profile.Email)
	if email == "" || len(form.Password) < minPasswordLen {
		c.setError("Valid email and 6+ char password required.")
		return common.ErrorValidation
	}
	if form.Password != form.Confirm {
		c.setError("Passwords do not match.")
		return common.ErrorValidation
	}

	profile := form.Profile
	profile.Email = email

	if err := c.identity.SignUp(ctx, email, form.Password, profile); err != nil {
		c.setError("Registration failed: " + err.Error())
		return err
	}

	c.registerMode = false
	c.setNotice("Account created! Please log in.")
	return nil
}

// Logout signs the user out and wipes all session state.
func (c *Controller) Logout(ctx context.Context) {
	c.forceSignOut(ctx)
}

// StartAssessment enters the symptom screen with a clean slate: any previous
// selection and prediction result is discarded so a prior run cannot leak
// into a new submission.
func (c *Controller) StartAssessment() bool {
	if !c.apply(EventStartAssessment) {
		return false
	}
	c.selected = map[string]bool{}
	c.results = nil
	c.precautions = ""
	return true
}

// ToggleSymptom flips the selection state of a catalog symptom.
func (c *Controller) ToggleSymptom(name string) bool {
	if c.screen != ScreenSymptoms {
		return false
	}
	for _, s := range c.catalog {
		if s == name {
			c.selected[name] = !c.selected[name]
			return true
		}
	}
	return false
}

// SelectedSymptoms returns the current selection snapshot in catalog order.
func (c *Controller) SelectedSymptoms() []string {
	var selected []string
	for _, s := range c.catalog {
		if c.selected[s] {
			selected = append(selected, s)
		}
	}
	return selected
}

// Analyze submits the selected symptoms for prediction. With an empty
// selection it is a no-op: the screen does not change and no request is made.
// On failure or timeout the user is returned to the symptom screen with the
// selection preserved so the submission can be retried.
func (c *Controller) Analyze(ctx context.Context) error {
	if c.screen != ScreenSymptoms {
		return nil
	}
	selected := c.SelectedSymptoms()
	if len(selected) == 0 {
		return nil
	}

	c.apply(EventAnalyzeStarted)

	email := ""
	if c.account != nil {
		email = c.account.Email
	}

	reqCtx, cancel := context.WithTimeout(ctx, c.predictTimeout)
	defer cancel()

	prediction, err := c.predictor.Predict(reqCtx, selected, email)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			c.setError("Analysis timed out. The server took too long.")
		} else {
			c.setError("Connection failed. Check if backend is running.")
		}
		c.logger.Error(ctx, "prediction request failed", "error", err)
		c.apply(EventPredictionFailed)
		return err
	}

	precautions := prediction.Precaution
	if precautions == "" {
		precautions = defaultPrecautions
	}

	topMatch := "Unknown"
	if len(prediction.Diseases) > 0 {
		topMatch = prediction.Diseases[0]
	}

	now := c.now()
	entry := HistoryEntry{
		ID:             c.newID(),
		Date:           now.Format("02/01/2006"),
		Time:           now.Format("15:04"),
		TopMatch:       topMatch,
		Symptoms:       selected,
		AllPredictions: prediction.Diseases,
		Precautions:    precautions,
	}

	c.history = pushEntry(c.history, entry, c.historyLimit)
	if err := c.store.SaveHistory(ctx, c.history); err != nil {
		// The analysis result is still shown; only the remote log write is lost.
		c.logger.Warn(ctx, "history write failed", "error", err)
	}

	c.results = prediction.Diseases
	c.precautions = precautions
	c.apply(EventPredictionReceived)
	return nil
}

// ReturnHome navigates back to the dashboard.
func (c *Controller) ReturnHome() bool { return c.apply(EventReturnHome) }

// OpenProfile navigates from the dashboard to the profile screen.
func (c *Controller) OpenProfile() bool { return c.apply(EventOpenProfile) }

// OpenHistory navigates from the dashboard to the history screen.
func (c *Controller) OpenHistory() bool { return c.apply(EventOpenHistory) }

// HistoryEntryAt returns a single archived entry for the detail overlay.
// The overlay layers over the current screen and does not change it.
func (c *Controller) HistoryEntryAt(i int) (*HistoryEntry, bool) {
	if i < 0 || i >= len(c.history) {
		return nil, false
	}
	e := c.history[i]
	return &e, true
}

// UpdateProfile merge-writes the profile document and propagates an email
// change to the identity provider.
func (c *Controller) UpdateProfile(ctx context.Context, p Profile) error {
	p.Photo = c.profile.Photo
	previousEmail := c.profile.Email
	c.profile = p

	if err := c.store.SaveProfile(ctx, &c.profile); err != nil {
		c.setError("Failed to update profile: " + err.Error())
		return err
	}

	if p.Email != "" && p.Email != previousEmail {
		if err := c.identity.UpdateEmail(ctx, p.Email); err != nil {
			c.setError("Profile saved, but email update requires recent login.")
			return err
		}
		if c.account != nil {
			c.account.Email = p.Email
		}
	}

	c.setNotice("Profile details updated successfully!")
	return nil
}

// SetPhoto stores an encoded profile photo, rejecting oversized uploads
// before they ever reach the document store. The prior photo is retained on
// rejection.
func (c *Controller) SetPhoto(encoded string) error {
	if len(encoded) > c.photoLimit {
		c.setError(fmt.Sprintf("Photo exceeds the maximum allowed size of %d bytes.", c.photoLimit))
		return common.ErrorValidation
	}
	c.profile.Photo = encoded
	return nil
}

// ChangePassword re-authenticates with the current password and applies the
// new one. Validation failures never reach the identity service.
func (c *Controller) ChangePassword(ctx context.Context, current, next string) error {
	if current == "" || next == "" {
		c.setError("Please enter both current and new passwords.")
		return common.ErrorValidation
	}
	if len(next) < minPasswordLen {
		c.setError("New password must be at least 6 characters.")
		return common.ErrorValidation
	}

	if err := c.identity.ChangePassword(ctx, current, next); err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			c.setError("Current password is incorrect.")
		} else {
			c.setError("Failed to change password: " + err.Error())
		}
		return err
	}

	c.setNotice("Password changed successfully!")
	return nil
}
