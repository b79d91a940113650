package session

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"medai/internal/common"
	"medai/internal/logging"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- fakes ----

type fakeIdentity struct {
	SignUpErr  error
	SignInErr  error
	SignOutErr error
	ChangeErr  error
	UpdateErr  error

	SignInAccount *Account

	SignUpCalls  int
	SignOutCalls int

	LastSignUpEmail    string
	LastSignUpPassword string
	LastSignUpProfile  Profile
	LastUpdateEmail    string
}

func (f *fakeIdentity) SignUp(ctx context.Context, email, password string, profile Profile) error {
	f.SignUpCalls++
	f.LastSignUpEmail = email
	f.LastSignUpPassword = password
	f.LastSignUpProfile = profile
	return f.SignUpErr
}

func (f *fakeIdentity) SignIn(ctx context.Context, email, password string) (*Account, error) {
	if f.SignInErr != nil {
		return nil, f.SignInErr
	}
	if f.SignInAccount != nil {
		return f.SignInAccount, nil
	}
	return &Account{UID: "uid-1", Email: email}, nil
}

func (f *fakeIdentity) SignOut(ctx context.Context) error {
	f.SignOutCalls++
	return f.SignOutErr
}

func (f *fakeIdentity) ChangePassword(ctx context.Context, current, next string) error {
	return f.ChangeErr
}

func (f *fakeIdentity) UpdateEmail(ctx context.Context, email string) error {
	f.LastUpdateEmail = email
	return f.UpdateErr
}

type fakeStore struct {
	Profile        *Profile
	LoadProfileErr error
	SaveProfileErr error
	SavedProfile   *Profile

	History          []HistoryEntry
	LoadHistoryErr   error
	SaveHistoryErr   error
	SavedHistory     []HistoryEntry
	SaveHistoryCalls int
}

func (f *fakeStore) LoadProfile(ctx context.Context) (*Profile, error) {
	if f.LoadProfileErr != nil {
		return nil, f.LoadProfileErr
	}
	return f.Profile, nil
}

func (f *fakeStore) SaveProfile(ctx context.Context, p *Profile) error {
	if f.SaveProfileErr != nil {
		return f.SaveProfileErr
	}
	cp := *p
	f.SavedProfile = &cp
	return nil
}

func (f *fakeStore) LoadHistory(ctx context.Context) ([]HistoryEntry, error) {
	if f.LoadHistoryErr != nil {
		return nil, f.LoadHistoryErr
	}
	return f.History, nil
}

func (f *fakeStore) SaveHistory(ctx context.Context, entries []HistoryEntry) error {
	f.SaveHistoryCalls++
	if f.SaveHistoryErr != nil {
		return f.SaveHistoryErr
	}
	f.SavedHistory = append([]HistoryEntry(nil), entries...)
	return nil
}

type fakePredictor struct {
	SymptomsRet []string
	SymptomsErr error

	PredictRet *Prediction
	PredictErr error
	Block      bool

	PredictCalls int
	LastSymptoms []string
	LastEmail    string
}

func (f *fakePredictor) Symptoms(ctx context.Context) ([]string, error) {
	return f.SymptomsRet, f.SymptomsErr
}

func (f *fakePredictor) Predict(ctx context.Context, symptoms []string, userEmail string) (*Prediction, error) {
	f.PredictCalls++
	f.LastSymptoms = append([]string(nil), symptoms...)
	f.LastEmail = userEmail
	if f.Block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.PredictErr != nil {
		return nil, f.PredictErr
	}
	return f.PredictRet, nil
}

// ---- helpers ----

func testLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func newTestController(id *fakeIdentity, st *fakeStore, pr *fakePredictor) *Controller {
	c := NewController(id, st, pr, testLogger())
	c.newID = func() string { return "entry-id" }
	c.now = func() time.Time { return time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC) }
	return c
}

// loginTo brings the controller to the home screen with a loaded session.
func loginTo(t *testing.T, c *Controller) {
	t.Helper()
	require.NoError(t, c.Login(context.Background(), "ann@example.com", "secret123"))
	require.Equal(t, ScreenHome, c.Screen())
}

func defaultStore() *fakeStore {
	return &fakeStore{
		Profile: &Profile{Name: "Ann", Email: "ann@example.com", Weight: 60, Height: 170},
	}
}

// ---- tests ----

func TestLoginLoadsUserData(t *testing.T) {
	id := &fakeIdentity{}
	st := defaultStore()
	st.History = []HistoryEntry{{ID: "old", TopMatch: "Allergy"}}
	c := newTestController(id, st, &fakePredictor{})

	loginTo(t, c)

	assert.Equal(t, "Ann", c.Profile().Name)
	assert.Len(t, c.History(), 1)
	assert.Equal(t, "uid-1", c.Account().UID)
}

func TestLoginInvalidCredentials(t *testing.T) {
	id := &fakeIdentity{SignInErr: common.ErrorUnauthorized}
	c := newTestController(id, defaultStore(), &fakePredictor{})

	err := c.Login(context.Background(), "ann@example.com", "wrong")

	require.Error(t, err)
	assert.Equal(t, ScreenLogin, c.Screen())
	assert.Contains(t, c.ErrorMessage(), "Invalid credentials")
}

func TestLoginFailsClosedOnDataFetchError(t *testing.T) {
	id := &fakeIdentity{}
	st := &fakeStore{LoadProfileErr: errors.New("connection reset")}
	c := newTestController(id, st, &fakePredictor{})

	err := c.Login(context.Background(), "ann@example.com", "secret123")

	require.Error(t, err)
	assert.Equal(t, ScreenLogin, c.Screen())
	assert.Nil(t, c.Account())
	assert.Equal(t, 1, id.SignOutCalls)
}

func TestLoginRecoversMissingProfile(t *testing.T) {
	id := &fakeIdentity{}
	st := &fakeStore{LoadProfileErr: common.ErrorNotFound, LoadHistoryErr: common.ErrorNotFound}
	c := newTestController(id, st, &fakePredictor{})

	loginTo(t, c)

	require.NotNil(t, st.SavedProfile)
	assert.Equal(t, "ann", st.SavedProfile.Name)
	assert.Equal(t, "ann@example.com", st.SavedProfile.Email)
	assert.Empty(t, st.SavedHistory)
}

func TestRegisterValidation(t *testing.T) {
	tests := []struct {
		name string
		form RegistrationForm
		msg  string
	}{
		{
			name: "missing email",
			form: RegistrationForm{Password: "secret123", Confirm: "secret123"},
			msg:  "Valid email",
		},
		{
			name: "short password",
			form: RegistrationForm{Profile: Profile{Email: "bob@example.com"}, Password: "abc12", Confirm: "abc12"},
			msg:  "Valid email and 6+ char password required.",
		},
		{
			name: "confirmation mismatch",
			form: RegistrationForm{Profile: Profile{Email: "bob@example.com"}, Password: "secret123", Confirm: "secret124"},
			msg:  "Passwords do not match.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := &fakeIdentity{}
			c := newTestController(id, defaultStore(), &fakePredictor{})

			err := c.Register(context.Background(), tt.form)

			require.ErrorIs(t, err, common.ErrorValidation)
			assert.Zero(t, id.SignUpCalls, "no identity-creation call expected")
			assert.Contains(t, c.ErrorMessage(), tt.msg)
		})
	}
}

func TestRegisterDoesNotAutoLogin(t *testing.T) {
	id := &fakeIdentity{}
	c := newTestController(id, defaultStore(), &fakePredictor{})
	c.ToggleRegisterMode()

	form := RegistrationForm{
		Profile:  Profile{Name: "Bob", Email: " bob@example.com "},
		Password: "secret123",
		Confirm:  "secret123",
	}
	require.NoError(t, c.Register(context.Background(), form))

	assert.Equal(t, 1, id.SignUpCalls)
	assert.Equal(t, "bob@example.com", id.LastSignUpEmail)
	assert.Equal(t, ScreenLogin, c.Screen())
	assert.False(t, c.RegisterMode())
	assert.Nil(t, c.Account())
	assert.Equal(t, "Account created! Please log in.", c.Notice())
}

func TestCatalogFallback(t *testing.T) {
	pr := &fakePredictor{SymptomsErr: errors.New("connection refused")}
	c := newTestController(&fakeIdentity{}, defaultStore(), pr)

	c.LoadCatalog(context.Background())

	require.Len(t, c.Catalog(), 8)
	assert.Equal(t, FallbackSymptoms, c.Catalog())
}

func TestStartAssessmentClearsPreviousRun(t *testing.T) {
	pr := &fakePredictor{
		SymptomsRet: FallbackSymptoms,
		PredictRet:  &Prediction{Diseases: []string{"Allergy"}, Precaution: "Rest"},
	}
	c := newTestController(&fakeIdentity{}, defaultStore(), pr)
	c.LoadCatalog(context.Background())
	loginTo(t, c)

	require.True(t, c.StartAssessment())
	require.True(t, c.ToggleSymptom("itching"))
	require.NoError(t, c.Analyze(context.Background()))
	require.Equal(t, ScreenResults, c.Screen())

	require.True(t, c.ReturnHome())
	require.True(t, c.StartAssessment())

	assert.Empty(t, c.SelectedSymptoms())
	assert.Empty(t, c.Results())
	assert.Empty(t, c.Precautions())
}

func TestAnalyzeEmptySelectionIsNoop(t *testing.T) {
	pr := &fakePredictor{SymptomsRet: FallbackSymptoms}
	c := newTestController(&fakeIdentity{}, defaultStore(), pr)
	c.LoadCatalog(context.Background())
	loginTo(t, c)
	require.True(t, c.StartAssessment())

	require.NoError(t, c.Analyze(context.Background()))

	assert.Equal(t, ScreenSymptoms, c.Screen())
	assert.Zero(t, pr.PredictCalls, "no network call expected")
}

func TestAnalyzeSuccess(t *testing.T) {
	pr := &fakePredictor{
		SymptomsRet: FallbackSymptoms,
		PredictRet: &Prediction{
			Diseases:   []string{"Fungal infection", "Allergy", "Psoriasis"},
			Precaution: "Keep area dry",
		},
	}
	st := defaultStore()
	c := newTestController(&fakeIdentity{}, st, pr)
	c.LoadCatalog(context.Background())
	loginTo(t, c)

	require.True(t, c.StartAssessment())
	require.True(t, c.ToggleSymptom("itching"))
	require.True(t, c.ToggleSymptom("skin_rash"))
	require.NoError(t, c.Analyze(context.Background()))

	assert.Equal(t, ScreenResults, c.Screen())
	assert.Equal(t, []string{"Fungal infection", "Allergy", "Psoriasis"}, c.Results())
	assert.Equal(t, "Keep area dry", c.Precautions())
	assert.Equal(t, []string{"itching", "skin_rash"}, pr.LastSymptoms)
	assert.Equal(t, "ann@example.com", pr.LastEmail)

	require.Len(t, c.History(), 1)
	entry := c.History()[0]
	assert.Equal(t, "Fungal infection", entry.TopMatch)
	assert.Equal(t, []string{"itching", "skin_rash"}, entry.Symptoms)
	assert.Equal(t, c.History(), st.SavedHistory, "full log rewritten on append")
}

func TestAnalyzeTimeoutKeepsSelection(t *testing.T) {
	pr := &fakePredictor{SymptomsRet: FallbackSymptoms, Block: true}
	c := newTestController(&fakeIdentity{}, defaultStore(), pr)
	c.SetPredictTimeout(20 * time.Millisecond)
	c.LoadCatalog(context.Background())
	loginTo(t, c)

	require.True(t, c.StartAssessment())
	require.True(t, c.ToggleSymptom("cough"))
	err := c.Analyze(context.Background())

	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, ScreenSymptoms, c.Screen())
	assert.Equal(t, []string{"cough"}, c.SelectedSymptoms())
	assert.Contains(t, c.ErrorMessage(), "timed out")
}

func TestAnalyzeFailureKeepsSelection(t *testing.T) {
	pr := &fakePredictor{SymptomsRet: FallbackSymptoms, PredictErr: errors.New("status 500")}
	c := newTestController(&fakeIdentity{}, defaultStore(), pr)
	c.LoadCatalog(context.Background())
	loginTo(t, c)

	require.True(t, c.StartAssessment())
	require.True(t, c.ToggleSymptom("fatigue"))
	require.Error(t, c.Analyze(context.Background()))

	assert.Equal(t, ScreenSymptoms, c.Screen())
	assert.Equal(t, []string{"fatigue"}, c.SelectedSymptoms())
	assert.Contains(t, c.ErrorMessage(), "Connection failed")
}

func TestHistoryCapEvictsOldest(t *testing.T) {
	pr := &fakePredictor{SymptomsRet: FallbackSymptoms}
	st := defaultStore()
	c := newTestController(&fakeIdentity{}, st, pr)
	c.LoadCatalog(context.Background())
	loginTo(t, c)

	seq := 0
	c.newID = func() string {
		seq++
		return string(rune('a' + seq - 1))
	}

	for i := 0; i < 12; i++ {
		pr.PredictRet = &Prediction{Diseases: []string{"Diagnosis"}, Precaution: "Rest"}
		require.True(t, c.StartAssessment())
		require.True(t, c.ToggleSymptom("cough"))
		require.NoError(t, c.Analyze(context.Background()))
		require.True(t, c.ReturnHome())
	}

	require.Len(t, c.History(), DefaultHistoryLimit)
	// Newest first: the 12th run is at index 0, runs 1 and 2 were evicted.
	assert.Equal(t, "l", c.History()[0].ID)
	assert.Equal(t, "c", c.History()[len(c.History())-1].ID)
	assert.Len(t, st.SavedHistory, DefaultHistoryLimit)
}

func TestToggleSymptomRejectsUnknown(t *testing.T) {
	c := newTestController(&fakeIdentity{}, defaultStore(), &fakePredictor{SymptomsRet: FallbackSymptoms})
	c.LoadCatalog(context.Background())
	loginTo(t, c)
	require.True(t, c.StartAssessment())

	assert.False(t, c.ToggleSymptom("not_a_symptom"))
	assert.Empty(t, c.SelectedSymptoms())
}

func TestSetPhotoRejectsOversized(t *testing.T) {
	c := newTestController(&fakeIdentity{}, defaultStore(), &fakePredictor{})
	loginTo(t, c)

	require.NoError(t, c.SetPhoto("small-photo"))

	big := make([]byte, DefaultPhotoLimit+1)
	err := c.SetPhoto(string(big))

	require.ErrorIs(t, err, common.ErrorValidation)
	assert.Equal(t, "small-photo", c.Profile().Photo, "prior photo retained")
}

func TestChangePasswordValidation(t *testing.T) {
	id := &fakeIdentity{}
	c := newTestController(id, defaultStore(), &fakePredictor{})

	require.ErrorIs(t, c.ChangePassword(context.Background(), "", "secret123"), common.ErrorValidation)
	require.ErrorIs(t, c.ChangePassword(context.Background(), "old", "abc"), common.ErrorValidation)

	require.NoError(t, c.ChangePassword(context.Background(), "oldpass", "newpass1"))
	assert.Equal(t, "Password changed successfully!", c.Notice())
}

func TestNoticeExpires(t *testing.T) {
	c := newTestController(&fakeIdentity{}, defaultStore(), &fakePredictor{})
	base := time.Date(2025, 3, 14, 10, 30, 0, 0, time.UTC)
	c.now = func() time.Time { return base }

	c.setNotice("saved")
	require.Equal(t, "saved", c.Notice())

	c.now = func() time.Time { return base.Add(4 * time.Second) }
	assert.Empty(t, c.Notice())
}

func TestLogoutWipesSession(t *testing.T) {
	id := &fakeIdentity{}
	c := newTestController(id, defaultStore(), &fakePredictor{})
	loginTo(t, c)

	c.Logout(context.Background())

	assert.Equal(t, ScreenLogin, c.Screen())
	assert.Nil(t, c.Account())
	assert.Empty(t, c.Profile().Name)
	assert.Empty(t, c.History())
	assert.Equal(t, 1, id.SignOutCalls)
}
