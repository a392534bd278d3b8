package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/smart-living/internal/application"
	"github.com/oksasatya/smart-living/internal/domain/entity"
	"github.com/oksasatya/smart-living/internal/infrastructure/completion"
	"github.com/oksasatya/smart-living/internal/infrastructure/memory"
	"github.com/oksasatya/smart-living/internal/interface/middleware"
	"github.com/oksasatya/smart-living/pkg/helpers"
	"github.com/oksasatya/smart-living/pkg/mailer/templates"
	"github.com/oksasatya/smart-living/pkg/validation"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	if err := validation.Init(entity.RegisterValidations); err != nil {
		panic(err)
	}
	os.Exit(m.Run())
}

const threeNeighborhoods = `Sure:
[
  {"name": "Myers Park", "matchScore": 92, "highlights": ["Top schools"], "medianPrice": "$850,000", "description": "Leafy."},
  {"name": "NoDa", "matchScore": 81, "highlights": ["Arts district"], "medianPrice": "$420,000", "description": "Creative."},
  {"name": "Ballantyne", "matchScore": 77, "highlights": ["Golf"], "medianPrice": "$610,000", "description": "Suburban."}
]`

type fakeCompleter struct {
	mu      sync.Mutex
	content string
	err     error
	calls   int
}

func (f *fakeCompleter) Complete(context.Context, completion.Request) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.content, f.err
}

type fakePublisher struct {
	mu   sync.Mutex
	jobs []any
}

func (f *fakePublisher) PublishJSON(_ context.Context, v any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.jobs = append(f.jobs, v)
	return nil
}

type testApp struct {
	engine    *gin.Engine
	store     *memory.KVStore
	completer *fakeCompleter
	publisher *fakePublisher
}

func newTestApp(t *testing.T, mailEnabled bool) *testApp {
	t.Helper()
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	app := &testApp{
		store:     memory.NewKVStore(),
		completer: &fakeCompleter{content: threeNeighborhoods},
		publisher: &fakePublisher{},
	}
	profiles := application.NewProfileStorage(app.store)
	rec := application.NewRecommendationService(app.completer, "", 0.7, time.Second, "", logger)
	mail := application.NewMailService(app.publisher, templates.Brand{AppName: "Smart Living"}, "hello@smartliving.com", mailEnabled, logger)

	onboarding := NewOnboardingHandler(application.NewOnboardingService(app.store, profiles, mail, logger), logger)
	profile := NewProfileHandler(application.NewProfileService(profiles, 1500*time.Millisecond, logger), logger)
	dashboard := NewDashboardHandler(application.NewDashboardService(profiles, rec, logger), logger)
	recommend := NewRecommendationHandler(rec, logger)
	contact := NewContactHandler(mail, logger)

	r := gin.New()
	api := r.Group("/api")
	api.GET("/onboarding/options", onboarding.Options)
	api.POST("/recommendations", recommend.Create)
	api.POST("/contact", contact.Send)

	dev := api.Group("/")
	dev.Use(middleware.DeviceID(helpers.NewCookie("", false), false))
	dev.POST("/onboarding", onboarding.Start)
	dev.GET("/onboarding/:id", onboarding.Get)
	dev.PATCH("/onboarding/:id", onboarding.Update)
	dev.POST("/onboarding/:id/adjust", onboarding.Adjust)
	dev.POST("/onboarding/:id/school-needs", onboarding.ToggleSchoolNeed)
	dev.POST("/onboarding/:id/next", onboarding.Next)
	dev.POST("/onboarding/:id/back", onboarding.Back)
	dev.GET("/profile", profile.Get)
	dev.PUT("/profile", profile.Update)
	dev.GET("/dashboard", dashboard.Get)

	app.engine = r
	return app
}

type envelope struct {
	Status        int                   `json:"status"`
	Success       bool                  `json:"success"`
	Message       string                `json:"message"`
	Data          json.RawMessage       `json:"data"`
	Error         json.RawMessage       `json:"error"`
	Notifications []entity.Notification `json:"notifications"`
	Redirect      *entity.Redirect      `json:"redirect"`
}

func (a *testApp) do(t *testing.T, method, path, device string, body any) (int, envelope) {
	t.Helper()
	var rd io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			rd = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			rd = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if device != "" {
		req.Header.Set(middleware.DeviceHeader, device)
	}
	w := httptest.NewRecorder()
	a.engine.ServeHTTP(w, req)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return w.Code, env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

func fullProfileBody() map[string]any {
	return map[string]any{
		"name":          "Jane Doe",
		"email":         "jane@example.com",
		"householdSize": 3,
		"children":      1,
		"schoolNeeds":   []string{"Elementary"},
		"income":        120000,
		"education":     "masters",
		"priorities":    map[string]int{"safety": 9, "walkability": 7, "familyFriendly": 8, "nightlife": 2, "quiet": 6},
		"gender":        "",
		"ethnicity":     "",
	}
}

func TestOnboarding_FullFlowOverHTTP(t *testing.T) {
	app := newTestApp(t, true)
	const dev = "device-a"

	code, env := app.do(t, http.MethodPost, "/api/onboarding", dev, nil)
	require.Equal(t, http.StatusCreated, code)
	wiz := decode[wizardView](t, env.Data)
	require.Equal(t, 1, wiz.Step)
	require.Equal(t, 25, wiz.Progress)
	require.False(t, wiz.CanGoBack)
	require.Equal(t, 75000, wiz.Steppers["income"].Value)
	base := "/api/onboarding/" + wiz.ID

	code, env = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.Equal(t, entity.MsgRequiredAccountFields, env.Message)
	require.Len(t, env.Notifications, 1)
	require.Equal(t, entity.NotificationError, env.Notifications[0].Level)

	code, _ = app.do(t, http.MethodPatch, base, dev, map[string]any{
		"name": "Jane Doe", "email": "jane@example.com", "password": "secret",
	})
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, decode[wizardView](t, env.Data).Step)

	code, env = app.do(t, http.MethodPost, base+"/adjust", dev, map[string]any{"field": "householdSize", "action": "increment"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, 2, decode[wizardView](t, env.Data).Draft.HouseholdSize)

	code, env = app.do(t, http.MethodPost, base+"/school-needs", dev, map[string]any{"need": "High School"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, []string{"High School"}, decode[wizardView](t, env.Data).Draft.SchoolNeeds)

	code, _ = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.Equal(t, entity.MsgEducationRequired, env.Message)

	code, _ = app.do(t, http.MethodPatch, base, dev, map[string]any{"education": "bachelors"})
	require.Equal(t, http.StatusOK, code)
	code, _ = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusOK, code)

	code, env = app.do(t, http.MethodPost, base+"/next", dev, nil)
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, application.MsgProfileCreated, env.Message)
	require.Len(t, env.Notifications, 1)
	require.Equal(t, entity.NotificationSuccess, env.Notifications[0].Level)
	require.NotNil(t, env.Redirect)
	require.Equal(t, entity.ScreenDashboard, env.Redirect.To)

	code, env = app.do(t, http.MethodGet, "/api/profile", dev, nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[profileView](t, env.Data)
	require.Equal(t, "Jane Doe", view.Name)
	require.True(t, view.PasswordSet)
	require.NotContains(t, string(env.Data), "secret")

	// the session is gone once the profile is saved
	code, _ = app.do(t, http.MethodGet, base, dev, nil)
	require.Equal(t, http.StatusNotFound, code)

	require.Len(t, app.publisher.jobs, 1)
}

func TestOnboarding_OtherDeviceCannotSeeSession(t *testing.T) {
	app := newTestApp(t, false)
	_, env := app.do(t, http.MethodPost, "/api/onboarding", "device-a", nil)
	id := decode[wizardView](t, env.Data).ID

	code, _ := app.do(t, http.MethodGet, "/api/onboarding/"+id, "device-b", nil)
	require.Equal(t, http.StatusNotFound, code)

	code, _ = app.do(t, http.MethodPost, "/api/onboarding", "", nil)
	require.Equal(t, http.StatusUnauthorized, code)
}

func TestOnboarding_RejectsBadInput(t *testing.T) {
	app := newTestApp(t, false)
	_, env := app.do(t, http.MethodPost, "/api/onboarding", "device-a", nil)
	base := "/api/onboarding/" + decode[wizardView](t, env.Data).ID

	code, _ := app.do(t, http.MethodPatch, base, "device-a", map[string]any{"education": "phd"})
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = app.do(t, http.MethodPost, base+"/adjust", "device-a", map[string]any{"field": "income", "action": "double"})
	require.Equal(t, http.StatusBadRequest, code)

	code, _ = app.do(t, http.MethodPost, base+"/adjust", "device-a", map[string]any{"field": "shoeSize", "action": "increment"})
	require.Equal(t, http.StatusUnprocessableEntity, code)

	code, _ = app.do(t, http.MethodPatch, base, "device-a", `{"householdSize": "three"}`)
	require.Equal(t, http.StatusBadRequest, code)

	// clamped, not rejected
	code, env = app.do(t, http.MethodPatch, base, "device-a", map[string]any{"householdSize": 40})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, entity.MaxHouseholdSize, decode[wizardView](t, env.Data).Draft.HouseholdSize)
}

func TestOptions_ListsEnumerations(t *testing.T) {
	app := newTestApp(t, false)
	code, env := app.do(t, http.MethodGet, "/api/onboarding/options", "", nil)
	require.Equal(t, http.StatusOK, code)
	opts := decode[map[string]json.RawMessage](t, env.Data)
	for _, k := range []string{"schoolNeeds", "education", "gender", "ethnicity", "priorities", "bounds"} {
		require.Contains(t, opts, k)
	}
}

func TestProfile_GetWithoutProfileRedirects(t *testing.T) {
	app := newTestApp(t, false)
	code, env := app.do(t, http.MethodGet, "/api/profile", "device-a", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Redirect)
	require.Equal(t, entity.ScreenOnboarding, env.Redirect.To)
}

func TestProfile_PutThenGet(t *testing.T) {
	app := newTestApp(t, false)

	code, env := app.do(t, http.MethodPut, "/api/profile", "device-a", fullProfileBody())
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, application.MsgProfileUpdated, env.Message)
	require.NotNil(t, env.Redirect)
	require.Equal(t, entity.ScreenDashboard, env.Redirect.To)
	require.EqualValues(t, 1500, env.Redirect.DelayMS)

	code, env = app.do(t, http.MethodGet, "/api/profile", "device-a", nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[profileView](t, env.Data)
	require.Equal(t, 120000, view.Income)
	require.Equal(t, 9, view.Priorities.Safety)
	require.False(t, view.PasswordSet)
}

func TestProfile_PutRejectsInvalidValues(t *testing.T) {
	app := newTestApp(t, false)
	cases := map[string]func(map[string]any){
		"off-grid income":   func(b map[string]any) { b["income"] = 31234 },
		"household too big": func(b map[string]any) { b["householdSize"] = 11 },
		"unknown need":      func(b map[string]any) { b["schoolNeeds"] = []string{"Preschool"} },
		"unknown education": func(b map[string]any) { b["education"] = "phd" },
		"missing income":    func(b map[string]any) { delete(b, "income") },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			body := fullProfileBody()
			mutate(body)
			code, env := app.do(t, http.MethodPut, "/api/profile", "device-a", body)
			require.Equal(t, http.StatusBadRequest, code)
			require.False(t, env.Success)
		})
	}
	_, err := app.store.Get(context.Background(), application.ProfileKey("device-a"))
	require.Error(t, err)
}

func TestDashboard_NoProfileRedirects(t *testing.T) {
	app := newTestApp(t, false)
	code, env := app.do(t, http.MethodGet, "/api/dashboard", "device-a", nil)
	require.Equal(t, http.StatusOK, code)
	require.NotNil(t, env.Redirect)
	require.Equal(t, entity.ScreenOnboarding, env.Redirect.To)
	require.Zero(t, app.completer.calls)
}

func TestDashboard_AIAndFallback(t *testing.T) {
	app := newTestApp(t, false)
	code, _ := app.do(t, http.MethodPut, "/api/profile", "device-a", fullProfileBody())
	require.Equal(t, http.StatusOK, code)

	code, env := app.do(t, http.MethodGet, "/api/dashboard", "device-a", nil)
	require.Equal(t, http.StatusOK, code)
	view := decode[dashboardView](t, env.Data)
	require.Equal(t, application.SourceAI, view.Source)
	require.Equal(t, "Myers Park", view.Recommendations[0].Name)
	require.Empty(t, env.Notifications)

	app.completer.content = "sorry, no data"
	code, env = app.do(t, http.MethodGet, "/api/dashboard", "device-a", nil)
	require.Equal(t, http.StatusOK, code)
	view = decode[dashboardView](t, env.Data)
	require.Equal(t, application.SourceFallback, view.Source)
	require.Len(t, view.Recommendations, 3)
	require.Len(t, env.Notifications, 1)
	require.Equal(t, entity.NotificationWarning, env.Notifications[0].Level)
}

func TestDashboard_CorruptProfile(t *testing.T) {
	app := newTestApp(t, false)
	require.NoError(t, app.store.Set(context.Background(), application.ProfileKey("device-a"), []byte(`{"householdSize":"many"`)))

	code, env := app.do(t, http.MethodGet, "/api/dashboard", "device-a", nil)
	require.Equal(t, http.StatusUnprocessableEntity, code)
	require.NotNil(t, env.Redirect)
	require.Equal(t, entity.ScreenOnboarding, env.Redirect.To)
	require.Zero(t, app.completer.calls)
}

func TestRecommendations_Proxy(t *testing.T) {
	app := newTestApp(t, false)
	body := map[string]any{
		"householdSize": 2, "numberOfChildren": 0, "annualIncome": 90000,
		"priorities": map[string]int{"safety": 5, "walkability": 5, "familyFriendly": 5, "nightlife": 5, "quiet": 5},
	}

	code, env := app.do(t, http.MethodPost, "/api/recommendations", "", body)
	require.Equal(t, http.StatusOK, code)
	recs := decode[[]entity.NeighborhoodRecommendation](t, env.Data)
	require.Len(t, recs, 3)

	app.completer.err = errors.New("upstream 401")
	code, env = app.do(t, http.MethodPost, "/api/recommendations", "", body)
	require.Equal(t, http.StatusBadGateway, code)
	require.False(t, env.Success)

	body["priorities"] = map[string]int{"safety": 11}
	code, _ = app.do(t, http.MethodPost, "/api/recommendations", "", body)
	require.Equal(t, http.StatusBadRequest, code)
}

func TestContact(t *testing.T) {
	disabled := newTestApp(t, false)
	msg := map[string]any{"name": "Sam", "email": "sam@example.com", "subject": "Hi", "message": "Do you cover Raleigh?"}
	code, _ := disabled.do(t, http.MethodPost, "/api/contact", "", msg)
	require.Equal(t, http.StatusServiceUnavailable, code)

	app := newTestApp(t, true)
	code, _ = app.do(t, http.MethodPost, "/api/contact", "", map[string]any{"message": "no email"})
	require.Equal(t, http.StatusBadRequest, code)

	code, env := app.do(t, http.MethodPost, "/api/contact", "", msg)
	require.Equal(t, http.StatusAccepted, code)
	require.True(t, env.Success)
	require.Len(t, app.publisher.jobs, 1)
}
