package accounthandler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"debatematch/internal/mocks"
	"debatematch/internal/services/identity"
	"debatematch/internal/services/values"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"
)

type fixture struct {
	router   *gin.Engine
	identity *mocks.MockIIdentityService
	values   *mocks.MockIValuesService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	ctrl := gomock.NewController(t)
	f := &fixture{
		router:   gin.New(),
		identity: mocks.NewMockIIdentityService(ctrl),
		values:   mocks.NewMockIValuesService(ctrl),
	}
	New(f.identity, f.values).Register(f.router.Group("/api"))
	return f
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("x-auth-token", token)
	}
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	return w
}

func (f *fixture) authorize(token, userID string) {
	f.identity.EXPECT().Verify(gomock.Any(), token).
		Return(&identity.Claims{UserID: userID, Username: "alice"}, nil).AnyTimes()
}

func TestRegister(t *testing.T) {
	f := newFixture(t)
	in := identity.RegisterInput{Username: "alice", Email: "alice@example.com", Password: "correct horse"}

	f.identity.EXPECT().Register(gomock.Any(), in).
		Return(&identity.Session{Token: "tok", UserID: "u-1", Username: "alice"}, nil)
	w := f.do(http.MethodPost, "/api/register", "", `{"username":"alice","email":"alice@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusCreated, w.Code)
	assert.JSONEq(t, `{"token":"tok","userId":"u-1","username":"alice","valueIdentificationCompleted":false,
		"message":"User registered successfully. Please complete the value identification process."}`, w.Body.String())

	f.identity.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, &identity.ValidationError{Msg: "Invalid email format"})
	w = f.do(http.MethodPost, "/api/register", "", `{"username":"a","email":"x","password":"12345678"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid email format"}`, w.Body.String())

	f.identity.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, identity.ErrUserExists)
	w = f.do(http.MethodPost, "/api/register", "", `{"username":"a","email":"a@b.co","password":"12345678"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Username or email already exists"}`, w.Body.String())

	f.identity.EXPECT().Register(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))
	w = f.do(http.MethodPost, "/api/register", "", `{"username":"a","email":"a@b.co","password":"12345678"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)

	w = f.do(http.MethodPost, "/api/register", "", `{not json`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLogin(t *testing.T) {
	f := newFixture(t)

	f.identity.EXPECT().Login(gomock.Any(), "alice@example.com", "correct horse").
		Return(&identity.Session{Token: "tok", UserID: "u-1", Username: "alice", ValueIdentificationCompleted: true}, nil)
	w := f.do(http.MethodPost, "/api/login", "", `{"email":"alice@example.com","password":"correct horse"}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"token":"tok","userId":"u-1","username":"alice","valueIdentificationCompleted":true}`, w.Body.String())

	f.identity.EXPECT().Login(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, identity.ErrInvalidCredentials)
	w = f.do(http.MethodPost, "/api/login", "", `{"email":"alice@example.com","password":"nope"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Invalid credentials"}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/login", "", `{"email":"alice@example.com"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUser(t *testing.T) {
	f := newFixture(t)
	f.authorize("tok", "u-1")

	f.identity.EXPECT().GetUser(gomock.Any(), "u-1").
		Return(&identity.UserDTO{ID: "u-1", Username: "alice", IdentifiedValues: "honesty"}, nil)
	w := f.do(http.MethodGet, "/api/user", "tok", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"identifiedValues":"honesty"`)
	assert.NotContains(t, w.Body.String(), "password")

	f.identity.EXPECT().GetUser(gomock.Any(), "u-1").Return(nil, identity.ErrUserNotFound)
	w = f.do(http.MethodGet, "/api/user", "tok", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = f.do(http.MethodGet, "/api/user", "", "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestValueIdentification(t *testing.T) {
	f := newFixture(t)
	f.authorize("tok", "u-1")

	f.values.EXPECT().Advance(gomock.Any(), "u-1", "Family", false).
		Return(&values.Progress{Reply: "Why family?", ProgressPercent: 20}, nil)
	w := f.do(http.MethodPost, "/api/value-identification", "tok", `{"message":"Family","isComplete":false}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Why family?","progress":20,"completed":false}`, w.Body.String())

	f.values.EXPECT().Advance(gomock.Any(), "u-1", "Done", true).
		Return(&values.Progress{Reply: "You value family.", ProgressPercent: 100, Complete: true}, nil)
	w = f.do(http.MethodPost, "/api/value-identification", "tok", `{"message":"Done","isComplete":true}`)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Value identification completed","values":"You value family.","progress":100,"completed":true}`, w.Body.String())

	f.values.EXPECT().Advance(gomock.Any(), "u-1", "x", false).Return(nil, errors.New("openai: 503"))
	w = f.do(http.MethodPost, "/api/value-identification", "tok", `{"message":"x"}`)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.JSONEq(t, `{"message":"Error during value identification process"}`, w.Body.String())

	w = f.do(http.MethodPost, "/api/value-identification", "tok", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	f.values.EXPECT().Reset(gomock.Any(), "u-1").Return(nil)
	w = f.do(http.MethodPost, "/api/value-identification/reset", "tok", "")
	assert.Equal(t, http.StatusNoContent, w.Code)
}
