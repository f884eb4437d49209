package web

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync"
	"testing"
	"time"

	apperrors "techflow-careers/internal/common/errors"
	"techflow-careers/internal/common/logger"
	"techflow-careers/internal/models"
	"techflow-careers/internal/wizard"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

type fakeCareers struct {
	careers []models.Career
	err     error
}

func (f *fakeCareers) ListCareers(ctx context.Context) ([]models.Career, error) {
	if f.err != nil {
		return nil, f.err
	}
	return append([]models.Career(nil), f.careers...), nil
}

func (f *fakeCareers) GetCareer(ctx context.Context, id string) (*models.Career, error) {
	for _, c := range f.careers {
		if c.ID == id {
			c := c
			return &c, nil
		}
	}
	return nil, apperrors.NewCareerNotFoundError(id)
}

type fakeSearch struct {
	results []models.Career
	err     error
	query   string
}

func (f *fakeSearch) Careers(ctx context.Context, q string, limit int) ([]models.Career, error) {
	f.query = q
	return f.results, f.err
}

type captureSink struct {
	mu    sync.Mutex
	calls int
	jobID string
	data  *models.ApplicationData
	err   error
}

func (s *captureSink) SubmitJobApplication(ctx context.Context, jobID string, data *models.ApplicationData) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls++
	s.jobID = jobID
	s.data = data
	return s.err
}

func testCatalog() *fakeCareers {
	return &fakeCareers{careers: []models.Career{
		{
			ID: "1", Title: "Senior Full Stack Developer", Department: "Engineering",
			Salary: &models.Salary{Min: 120000, Max: 180000, Currency: "USD"},
			IsActive: true, Featured: true, PostedDate: "2025-01-15",
		},
		{ID: "2", Title: "DevOps Engineer", Department: "Engineering", IsActive: true, PostedDate: "2025-01-10"},
		{ID: "3", Title: "Flash Developer", Department: "Engineering", IsActive: false, PostedDate: "2010-01-01"},
	}}
}

type testEnv struct {
	handler http.Handler
	sink    *captureSink
	search  *fakeSearch
	store   *wizard.Store
}

func newTestEnv(t *testing.T, opts Options) *testEnv {
	sink := &captureSink{}
	search := &fakeSearch{}
	now := time.Date(2025, 1, 20, 10, 0, 0, 0, time.UTC)
	store := wizard.NewStore(sink, time.Hour, wizard.WithClock(func() time.Time { return now }))

	opts.SessionSecret = testSecret
	srv, err := NewServer(opts, testCatalog(), search, store, logger.NewTestLogger(t))
	require.NoError(t, err)

	return &testEnv{handler: srv.Handler(), sink: sink, search: search, store: store}
}

// browser keeps cookies between requests.
type browser struct {
	t       *testing.T
	handler http.Handler
	cookies map[string]*http.Cookie
}

func (e *testEnv) browser(t *testing.T) *browser {
	return &browser{t: t, handler: e.handler, cookies: map[string]*http.Cookie{}}
}

func (b *browser) do(req *http.Request) *httptest.ResponseRecorder {
	for _, c := range b.cookies {
		req.AddCookie(c)
	}
	rec := httptest.NewRecorder()
	b.handler.ServeHTTP(rec, req)
	for _, c := range rec.Result().Cookies() {
		b.cookies[c.Name] = c
	}
	return rec
}

func (b *browser) get(path string) *httptest.ResponseRecorder {
	return b.do(httptest.NewRequest(http.MethodGet, path, nil))
}

func (b *browser) post(path string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return b.do(req)
}

func (b *browser) upload(path, slot, filename string, content []byte) *httptest.ResponseRecorder {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(b.t, mw.WriteField("slot", slot))
	part, err := mw.CreateFormFile("file", filename)
	require.NoError(b.t, err)
	_, err = part.Write(content)
	require.NoError(b.t, err)
	require.NoError(b.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, path, &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return b.do(req)
}

func assertRedirect(t *testing.T, rec *httptest.ResponseRecorder, location string) {
	t.Helper()
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, location, rec.Header().Get("Location"))
}

func personalInfoForm(action string) url.Values {
	return url.Values{
		"firstName": {"John"},
		"lastName":  {"Doe"},
		"email":     {"john@example.com"},
		"phone":     {"+1 555 0100"},
		"location":  {"San Francisco, CA"},
		"action":    {action},
	}
}

func TestCareersPage(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.browser(t).get("/careers")

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	assert.Contains(t, body, "Featured Positions")
	assert.Contains(t, body, "Senior Full Stack Developer")
	assert.Contains(t, body, "$120,000 - $180,000")
	assert.Contains(t, body, "DevOps Engineer")
	assert.NotContains(t, body, "Flash Developer")
	assert.Contains(t, body, "2 open positions")
}

func TestCareerPage(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)

	rec := b.get("/careers/1")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `action="/careers/1/apply"`)

	assert.Equal(t, http.StatusNotFound, b.get("/careers/3").Code)
	assert.Equal(t, http.StatusNotFound, b.get("/careers/99").Code)
}

func TestAPICareers(t *testing.T) {
	env := newTestEnv(t, Options{AllowedOrigins: []string{"https://techflow.example"}})

	req := httptest.NewRequest(http.MethodGet, "/api/careers", nil)
	req.Header.Set("Origin", "https://techflow.example")
	rec := env.browser(t).do(req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "https://techflow.example", rec.Header().Get("Access-Control-Allow-Origin"))

	var listing models.CareerListing
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &listing))
	require.Len(t, listing.Featured, 1)
	require.Len(t, listing.Regular, 1)
	assert.Equal(t, "2", listing.Regular[0].ID)
}

func TestAPICareer_NotFound(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.browser(t).get("/api/careers/3")

	require.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "CAREER_NOT_FOUND", body["code"])
}

func TestAPICareers_Preflight(t *testing.T) {
	env := newTestEnv(t, Options{AllowedOrigins: []string{"https://techflow.example"}})

	req := httptest.NewRequest(http.MethodOptions, "/api/careers", nil)
	req.Header.Set("Origin", "https://techflow.example")
	req.Header.Set("Access-Control-Request-Method", http.MethodGet)
	rec := env.browser(t).do(req)

	assert.Equal(t, "https://techflow.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Empty(t, rec.Body.String())
}

func TestApply_FullFlow(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)

	assertRedirect(t, b.post("/careers/1/apply", nil), "/careers/1/apply")

	page := b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Apply for Senior Full Stack Developer")
	assert.Contains(t, page, "Step 1 of 4")
	assert.Contains(t, page, "Personal Information")

	assertRedirect(t, b.post("/careers/1/apply/step", personalInfoForm("next")), "/careers/1/apply")
	assert.Contains(t, b.get("/careers/1/apply").Body.String(), "Step 2 of 4")

	b.post("/careers/1/apply/step", url.Values{
		"currentRole":  {"Software Engineer"},
		"experience":   {"4-5"},
		"availability": {"2-weeks"},
		"action":       {"next"},
	})
	page = b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Step 3 of 4")
	assert.Contains(t, page, "Accepted formats: PDF, DOC, DOCX")

	assertRedirect(t, b.upload("/careers/1/apply/documents", "resume", "cv.pdf", []byte("%PDF-1.7")), "/careers/1/apply")
	page = b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Resume uploaded successfully")
	assert.Contains(t, page, "cv.pdf")

	b.post("/careers/1/apply/step", url.Values{"action": {"next"}})
	page = b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Step 4 of 4")
	assert.Contains(t, page, "Submit Application")

	b.post("/careers/1/apply/step", url.Values{
		"whyInterested": {"The stack"},
		"whyCompany":    {"The mission"},
		"remote":        {"on"},
		"_preferences":  {"1"},
		"action":        {"submit"},
	})

	page = b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Application Submitted!")
	assert.Contains(t, page, "Thank you for your interest in the Senior Full Stack Developer position.")
	assert.Contains(t, page, "Apply for Another Position")

	require.Equal(t, 1, env.sink.calls)
	assert.Equal(t, "1", env.sink.jobID)
	data := env.sink.data
	assert.Equal(t, "John", data.PersonalInfo.FirstName)
	assert.Equal(t, "2-weeks", data.Experience.Availability)
	require.NotNil(t, data.Documents.Resume)
	assert.Equal(t, []byte("%PDF-1.7"), data.Documents.Resume.Content)
	assert.Equal(t, "The mission", data.Questions.WhyCompany)
	assert.True(t, data.Preferences.Remote)
	assert.False(t, data.Preferences.Notifications)

	// Apply for Another Position
	assertRedirect(t, b.post("/careers/1/apply/reset", nil), "/careers/1/apply")
	assert.Contains(t, b.get("/careers/1/apply").Body.String(), "Step 1 of 4")
}

func TestApply_IncompleteStep(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)

	form := personalInfoForm("next")
	form.Del("email")
	b.post("/careers/1/apply/step", form)

	page := b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Step 1 of 4")
	assert.Contains(t, page, "Please fill in all required fields")
	// entered values survive
	assert.Contains(t, page, `value="John"`)
}

func TestApply_PreviousKeepsValues(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)
	b.post("/careers/1/apply/step", personalInfoForm("next"))

	b.post("/careers/1/apply/step", url.Values{"currentRole": {"SRE"}, "action": {"previous"}})
	assert.Contains(t, b.get("/careers/1/apply").Body.String(), "Step 1 of 4")

	b.post("/careers/1/apply/step", personalInfoForm("next"))
	assert.Contains(t, b.get("/careers/1/apply").Body.String(), `value="SRE"`)
}

func TestApply_OversizedUpload(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)
	b.post("/careers/1/apply/step", personalInfoForm("next"))
	b.post("/careers/1/apply/step", url.Values{
		"currentRole": {"Engineer"}, "experience": {"0-1"}, "availability": {"immediately"}, "action": {"next"},
	})

	big := make([]byte, models.MaxDocumentSize+1)
	assertRedirect(t, b.upload("/careers/1/apply/documents", "resume", "cv.pdf", big), "/careers/1/apply")

	page := b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "File size must be less than 5MB")
	assert.NotContains(t, page, "cv.pdf")

	b.upload("/careers/1/apply/documents", "portfolio", "work.exe", []byte("MZ"))
	assert.Contains(t, b.get("/careers/1/apply").Body.String(), "Accepted formats: PDF, DOC, DOCX")

	rec := b.upload("/careers/1/apply/documents", "photo", "me.pdf", []byte("x"))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApply_RemoveDocument(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)
	b.post("/careers/1/apply/step", personalInfoForm("next"))
	b.post("/careers/1/apply/step", url.Values{
		"currentRole": {"Engineer"}, "experience": {"0-1"}, "availability": {"immediately"}, "action": {"next"},
	})
	b.upload("/careers/1/apply/documents", "coverLetter", "letter.docx", []byte("doc"))
	require.Contains(t, b.get("/careers/1/apply").Body.String(), "letter.docx")

	assertRedirect(t, b.post("/careers/1/apply/documents/coverLetter/remove", nil), "/careers/1/apply")
	page := b.get("/careers/1/apply").Body.String()
	assert.NotContains(t, page, "letter.docx")
	assert.Contains(t, page, "Cover Letter removed")
}

func TestApply_SubmitFailureKeepsRecord(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.sink.err = errors.New("database unavailable")
	b := env.browser(t)

	b.post("/careers/1/apply", nil)
	b.post("/careers/1/apply/step", personalInfoForm("next"))
	b.post("/careers/1/apply/step", url.Values{
		"currentRole": {"Engineer"}, "experience": {"0-1"}, "availability": {"immediately"}, "action": {"next"},
	})
	b.upload("/careers/1/apply/documents", "resume", "cv.pdf", []byte("pdf"))
	b.post("/careers/1/apply/step", url.Values{"action": {"next"}})
	b.post("/careers/1/apply/step", url.Values{
		"whyInterested": {"Growth"}, "whyCompany": {"Mission"}, "action": {"submit"},
	})

	page := b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Failed to submit application. Please try again.")
	assert.Contains(t, page, "Step 4 of 4")
	assert.Contains(t, page, "Growth")
	assert.Equal(t, 1, env.sink.calls)
	// no preferences marker was posted, so the default stands
	assert.True(t, env.sink.data.Preferences.Notifications)
}

func TestApply_WithoutOpenWizardRedirects(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)

	assertRedirect(t, b.get("/careers/1/apply"), "/careers/1")
	assertRedirect(t, b.post("/careers/1/apply/step", url.Values{"action": {"next"}}), "/careers/1")
}

func TestApply_InactiveCareer(t *testing.T) {
	env := newTestEnv(t, Options{})
	rec := env.browser(t).post("/careers/3/apply", nil)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, 0, env.store.Len())
}

func TestApply_UnknownAction(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)

	rec := b.post("/careers/1/apply/step", url.Values{"action": {"skip"}})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestApply_Close(t *testing.T) {
	env := newTestEnv(t, Options{})
	b := env.browser(t)
	b.post("/careers/1/apply", nil)
	b.post("/careers/1/apply/step", personalInfoForm("next"))
	require.Equal(t, 1, env.store.Len())

	assertRedirect(t, b.post("/careers/1/apply/close", nil), "/careers/1")
	assert.Equal(t, 0, env.store.Len())

	// reopening starts from a fresh record
	b.post("/careers/1/apply", nil)
	page := b.get("/careers/1/apply").Body.String()
	assert.Contains(t, page, "Step 1 of 4")
	assert.NotContains(t, page, `value="John"`)
}

func TestApply_SessionsAreIsolated(t *testing.T) {
	env := newTestEnv(t, Options{})
	alice := env.browser(t)
	bob := env.browser(t)

	alice.post("/careers/1/apply", nil)
	alice.post("/careers/1/apply/step", personalInfoForm("next"))

	assertRedirect(t, bob.get("/careers/1/apply"), "/careers/1")
	bob.post("/careers/1/apply", nil)
	assert.Contains(t, bob.get("/careers/1/apply").Body.String(), "Step 1 of 4")
	assert.Contains(t, alice.get("/careers/1/apply").Body.String(), "Step 2 of 4")
}

func TestSearchPage(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.search.results = []models.Career{{ID: "2", Title: "DevOps Engineer", IsActive: true}}

	rec := env.browser(t).get("/careers/search?q=devops")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "devops", env.search.query)
	assert.Contains(t, rec.Body.String(), "DevOps Engineer")
	assert.Contains(t, rec.Body.String(), "1 results")
}

func TestSearchPage_Suggestion(t *testing.T) {
	env := newTestEnv(t, Options{})

	rec := env.browser(t).get("/careers/search?q=devps")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "0 results")
	assert.Contains(t, rec.Body.String(), "Did you mean")
	assert.Contains(t, rec.Body.String(), ">DevOps Engineer</a>")
}

func TestSearchPage_BackendDown(t *testing.T) {
	env := newTestEnv(t, Options{})
	env.search.err = apperrors.NewSearchQueryFailedError("devops", errors.New("connection refused"))

	rec := env.browser(t).get("/careers/search?q=devops")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Search is currently unavailable")
}

func TestHealthAndReady(t *testing.T) {
	env := newTestEnv(t, Options{ReadyChecks: map[string]HealthCheck{
		"postgres": func(ctx context.Context) error { return nil },
		"redis":    func(ctx context.Context) error { return errors.New("dial tcp: connection refused") },
	}})
	b := env.browser(t)

	assert.Equal(t, http.StatusOK, b.get("/health").Code)

	rec := b.get("/ready")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	var body struct {
		Status string            `json:"status"`
		Checks map[string]string `json:"checks"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "not ready", body.Status)
	assert.Equal(t, "ok", body.Checks["postgres"])
	assert.Contains(t, body.Checks["redis"], "connection refused")

	assert.Equal(t, http.StatusOK, b.get("/metrics").Code)
}
