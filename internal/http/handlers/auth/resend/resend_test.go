package resend

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	c "usuario/internal/core/domain/common"
	ratelimiter "usuario/internal/core/domain/rate_limiter"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
	service "usuario/internal/core/services/resend_confirmation"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const CONFIRMATION_CODE = "test-confirmation-code"

type stubService struct {
	err   error
	input *service.Input
}

func (s *stubService) Run(ctx context.Context, input service.Input) (service.Result, error) {
	if s.err != nil {
		return service.Result{}, s.err
	}
	s.input = &input
	return service.Result{
		User:  user.User{ID: user.ID(1), Email: c.Email("test@test.test")},
		Token: token.Token{Code: token.Code(CONFIRMATION_CODE)},
	}, nil
}

func serve(handler *Handler, body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(http.MethodPost, "/auth/resend", strings.NewReader(body))
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, request)
	return recorder
}

func validBody() string {
	return `{"email": "test@test.test"}`
}

func TestSuccess(t *testing.T) {
	stub := &stubService{}
	handler := New(stub, false)

	recorder := serve(handler, validBody())

	require.Equal(t, http.StatusAccepted, recorder.Code)
	require.NotNil(t, stub.input)
	assert.Equal(t, c.Email("test@test.test"), stub.input.Email)
}

func TestNotResendableLooksLikeSuccess(t *testing.T) {
	successHandler := New(&stubService{}, false)
	successRecorder := serve(successHandler, validBody())

	notResendableHandler := New(&stubService{err: service.ErrNotResendable}, false)
	notResendableRecorder := serve(notResendableHandler, validBody())

	assert.Equal(t, successRecorder.Code, notResendableRecorder.Code)
	assert.Equal(t, successRecorder.Body.String(), notResendableRecorder.Body.String())
}

func TestTestModeExposesConfirmationToken(t *testing.T) {
	handler := New(&stubService{}, true)
	recorder := serve(handler, validBody())
	assert.Equal(t, CONFIRMATION_CODE, recorder.Header().Get("x-test-confirmation-token"))
}

func TestTestModeSetsNoHeaderWhenNotResendable(t *testing.T) {
	handler := New(&stubService{err: service.ErrNotResendable}, true)
	recorder := serve(handler, validBody())
	assert.Equal(t, "", recorder.Header().Get("x-test-confirmation-token"))
}

func TestRateLimitExceeded(t *testing.T) {
	handler := New(&stubService{err: ratelimiter.ErrRateLimitExceeded}, false)
	recorder := serve(handler, validBody())
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
}

func TestInvalidEmail(t *testing.T) {
	handler := New(&stubService{}, false)
	recorder := serve(handler, `{"email": "not-an-email"}`)
	assert.Equal(t, http.StatusBadRequest, recorder.Code)
}
