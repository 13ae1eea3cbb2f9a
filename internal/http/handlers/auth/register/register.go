package register

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "usuario/internal/core/domain/common"
	ratelimiter "usuario/internal/core/domain/rate_limiter"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"
	registeruser "usuario/internal/core/services/register_user"
	"usuario/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service               services.Service[registeruser.Input, registeruser.Result]
	isRegistrationEnabled bool
	isTestMode            bool
}

func New(
	service services.Service[registeruser.Input, registeruser.Result],
	isRegistrationEnabled bool,
	isTestMode bool,
) *Handler {
	return &Handler{
		service:               service,
		isRegistrationEnabled: isRegistrationEnabled,
		isTestMode:            isTestMode,
	}
}

type Input struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	Password string `json:"password"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
		validation.Field(&i.Username, validation.Required, validation.Length(3, 64)),
		validation.Field(&i.Password, validation.Required, validation.Length(6, 256)),
	)
}

type Output struct {
	User         response.User `json:"user"`
	SessionToken *string       `json:"session_token,omitempty"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if !h.isRegistrationEnabled {
		response.RenderNotFound(rw)
		return
	}

	input := Input{}
	if err := input.FromJSON(r.Body); err != nil {
		response.RenderError(rw, "invalid request data", http.StatusBadRequest)
		return
	}
	if err := input.Validate(); err != nil {
		response.Render(rw, err, http.StatusBadRequest)
		return
	}

	result, err := h.service.Run(
		r.Context(),
		registeruser.Input{
			Email:    c.NewEmail(input.Email),
			Username: user.Username(input.Username),
			Password: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		response.RenderError(rw, "email already exists", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		response.RenderError(rw, "username already exists", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode && result.Token.IsPresent {
		rw.Header().Set("x-test-confirmation-token", string(result.Token.Value.Code))
	}

	output := Output{}
	output.User.FromDomainUser(result.User)
	if result.SessionToken.IsPresent {
		sessionToken := string(result.SessionToken.Value)
		output.SessionToken = &sessionToken
	}
	response.Render(rw, output, http.StatusCreated)
}
