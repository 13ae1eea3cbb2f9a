package register

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
	service "usuario/internal/core/services/register_user"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const CONFIRMATION_CODE = "test-confirmation-code"
const SESSION_TOKEN = "test-session-token"

type stubService struct {
	result service.Result
	err    error
	input  *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	if s.err != nil {
		return service.Result{}, s.err
	}
	s.input = &input
	return s.result, nil
}

func pendingResult() service.Result {
	return service.Result{
		User: user.User{
			ID:        user.ID(1),
			Email:     c.Email("test@test.test"),
			Username:  user.Username("test-user"),
			CreatedAt: time.Date(2020, 1, 1, 1, 1, 1, 0, time.UTC),
		},
		Token: c.NewOptional(token.Token{Code: token.Code(CONFIRMATION_CODE)}, true),
	}
}

func confirmedResult() service.Result {
	result := pendingResult()
	result.Token = c.Optional[token.Token]{}
	result.User.ConfirmedAt = c.NewOptional(result.User.CreatedAt, true)
	result.SessionToken = c.NewOptional(user.SessionToken(SESSION_TOKEN), true)
	return result
}

func validBody() string {
	return `{"email": "Test@test.test", "username": "test-user", "password": "test-password"}`
}

func serve(handler *Handler, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/auth/register", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func TestRegistrationDisabled(t *testing.T) {
	handler := New(&stubService{result: pendingResult()}, false, false)
	recorder := serve(handler, validBody())
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}

func TestInvalidJSON(t *testing.T) {
	handler := New(&stubService{result: pendingResult()}, true, false)
	recorder := serve(handler, "{not json")
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}

func TestValidation(t *testing.T) {
	cases := []struct {
		id   string
		body string
	}{
		{"empty", `{}`},
		{"invalid email", `{"email": "not-an-email", "username": "test-user", "password": "test-password"}`},
		{"short username", `{"email": "test@test.test", "username": "ab", "password": "test-password"}`},
		{"short password", `{"email": "test@test.test", "username": "test-user", "password": "12345"}`},
	}
	for _, testcase := range cases {
		t.Run(testcase.id, func(t *testing.T) {
			handler := New(&stubService{result: pendingResult()}, true, false)
			recorder := serve(handler, testcase.body)
			assert.Equal(t, http.StatusBadRequest, recorder.Code)
		})
	}
}

func TestSuccessPendingConfirmation(t *testing.T) {
	stub := &stubService{result: pendingResult()}
	handler := New(stub, true, false)

	recorder := serve(handler, validBody())

	require.Equal(t, http.StatusCreated, recorder.Code)
	require.NotNil(t, stub.input)
	assert.Equal(t, c.Email("test@test.test"), stub.input.Email)
	assert.Equal(t, "", recorder.Header().Get("x-test-confirmation-token"))

	body := struct {
		User struct {
			ID          int64      `json:"id"`
			ConfirmedAt *time.Time `json:"confirmed_at"`
		} `json:"user"`
		SessionToken *string `json:"session_token"`
	}{}
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.Equal(t, int64(1), body.User.ID)
	assert.Nil(t, body.User.ConfirmedAt)
	assert.Nil(t, body.SessionToken)
}

func TestTestModeExposesConfirmationToken(t *testing.T) {
	handler := New(&stubService{result: pendingResult()}, true, true)
	recorder := serve(handler, validBody())
	assert.Equal(t, CONFIRMATION_CODE, recorder.Header().Get("x-test-confirmation-token"))
}

func TestSuccessAutoLogin(t *testing.T) {
	handler := New(&stubService{result: confirmedResult()}, true, false)

	recorder := serve(handler, validBody())

	require.Equal(t, http.StatusCreated, recorder.Code)
	body := struct {
		SessionToken *string `json:"session_token"`
	}{}
	require.Nil(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	require.NotNil(t, body.SessionToken)
	assert.Equal(t, SESSION_TOKEN, *body.SessionToken)
}

func TestEmailAlreadyExists(t *testing.T) {
	handler := New(&stubService{err: user.ErrEmailAlreadyExists}, true, false)
	recorder := serve(handler, validBody())
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}

func TestUsernameAlreadyExists(t *testing.T) {
	handler := New(&stubService{err: user.ErrUsernameAlreadyExists}, true, false)
	recorder := serve(handler, validBody())
	assert.Equal(t, http.StatusUnprocessableEntity, recorder.Code)
}
