package connect

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/social"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"
	connectsocialaccount "usuario/internal/core/services/connect_social_account"
	"usuario/internal/http/handlers/response"

	"github.com/go-chi/chi/v5"
	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service services.Service[connectsocialaccount.Input, connectsocialaccount.Result]
}

func New(service services.Service[connectsocialaccount.Input, connectsocialaccount.Result]) *Handler {
	return &Handler{service: service}
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
	SessionToken string        `json:"session_token"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
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
		connectsocialaccount.Input{
			Code:     social.Code(code),
			Email:    c.NewEmail(input.Email),
			Username: user.Username(input.Username),
			Password: user.RawPassword(input.Password),
		},
	)
	if errors.Is(err, social.ErrAccountDoesNotExist) {
		response.RenderNotFound(rw)
		return
	}
	if errors.Is(err, social.ErrAccountAlreadyConnected) {
		response.RenderNotFound(rw)
		return
	}
	if errors.Is(err, user.ErrEmailAlreadyExists) {
		response.RenderError(rw, "email already exists", http.StatusUnprocessableEntity)
		return
	}
	if errors.Is(err, user.ErrUsernameAlreadyExists) {
		response.RenderError(rw, "username already exists", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	output := Output{SessionToken: string(result.SessionToken)}
	output.User.FromDomainUser(result.User)
	response.Render(rw, output, http.StatusCreated)
}
