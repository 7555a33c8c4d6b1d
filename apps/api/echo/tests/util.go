package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	echoapi "github.com/elimuhub/elimu/apps/api/echo"
	"github.com/elimuhub/elimu/core"
	"github.com/elimuhub/elimu/core/identity"
	"github.com/elimuhub/elimu/core/progress"
	"github.com/elimuhub/elimu/core/subject"
	"github.com/elimuhub/elimu/core/user"
	"github.com/elimuhub/elimu/core/week"
	emailsvc "github.com/elimuhub/elimu/services/email"
	logsvc "github.com/elimuhub/elimu/services/logger"
	inmemkv "github.com/elimuhub/elimu/storage/kvstore/inmem"
	"github.com/elimuhub/elimu/tests"
)

const (
	testAdminSecret = "ada-academy"
	testPassword    = "Xk9#mPz7Qw"
)

var errMissingToken = httpErr{Error: "missing or invalid authorization token"}

type testEnv struct {
	server     *echoapi.Server
	provider   identity.Provider
	profileSvc *user.Service
	subjectSvc *subject.Service
	weekSvc    *week.Service
	progSvc    *progress.Service
	conf       *core.Config
}

func setup(t *testing.T) *testEnv {
	t.Helper()

	conf := &core.Config{
		TestMode:          true,
		Env:               "TEST",
		AppName:           "Elimu",
		SecretKey:         "test-secret",
		AdminSignupSecret: testAdminSecret,
		FrontendBaseURL:   "http://localhost:3000",
	}
	conf.Server.JWTExpirationDelta = time.Hour

	kv := inmemkv.Open()
	provider := identity.NewJWTProvider(kv, conf)
	profileSvc := user.NewService(kv)
	weekSvc := week.NewService(kv)
	subjectSvc := subject.NewService(kv, weekSvc)
	progSvc := progress.NewService(kv)

	validate := validator.New()
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	core.InitValidators(validate, translator)

	server := echoapi.NewServer(
		echoapi.ServerDeps{
			Conf:       conf,
			Logger:     logsvc.NewStdLogger(log.New(io.Discard, "", 0)),
			Provider:   provider,
			ProfileSvc: profileSvc,
			SubjectSvc: subjectSvc,
			WeekSvc:    weekSvc,
			ProgSvc:    progSvc,
			MailSvc:    emailsvc.NewConsoleService(conf),
			Validate:   validate,
			Translator: translator,
		},
	)
	return &testEnv{
		server:     server,
		provider:   provider,
		profileSvc: profileSvc,
		subjectSvc: subjectSvc,
		weekSvc:    weekSvc,
		progSvc:    progSvc,
		conf:       conf,
	}
}

// createStudent registers an account with the student role and returns its profile.
func (env *testEnv) createStudent(t *testing.T, email, name string) user.Profile {
	t.Helper()
	return testutil.CreateAccount(t, env.provider, env.profileSvc, email, name, testPassword, user.RoleStudent)
}

func (env *testEnv) createAdmin(t *testing.T, email, name string) user.Profile {
	t.Helper()
	return testutil.CreateAccount(t, env.provider, env.profileSvc, email, name, testPassword, user.RoleAdmin)
}

func (env *testEnv) getToken(t *testing.T, prof user.Profile) string {
	t.Helper()

	token, err := env.provider.Authenticate(context.Background(), prof.Email, testPassword)
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

type httpErr struct {
	Error interface{} `json:"error"`
}

type httpTest struct {
	name     string
	method   string
	path     string
	body     []byte
	token    string
	wantCode int
	wantData []byte
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()

	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

func jsonBytesEqual(t *testing.T, b1, b2 []byte) (bool, error) {
	var j1, j2 interface{}
	if err := json.Unmarshal(b1, &j1); err != nil {
		return false, err
	}
	if err := json.Unmarshal(b2, &j2); err != nil {
		return false, err
	}
	if reflect.DeepEqual(j1, j2) {
		return true, nil
	}
	if j1 == nil || j2 == nil {
		return false, nil
	}
	return assert.ElementsMatch(t, j1, j2), nil
}

func checkCodeAndData(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()

	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v", rec.Code, tt.wantCode)
	}
	ok, err := jsonBytesEqual(t, rec.Body.Bytes(), tt.wantData)
	if err != nil {
		t.Errorf("jsonBytesEqual() failed to compare; err %v", err)
	}
	if !ok {
		t.Errorf("failed! data = %v; wantData %v", rec.Body.String(), string(tt.wantData))
	}
}
