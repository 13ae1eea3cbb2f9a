package confirm

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
	"usuario/internal/core/services"
	confirmaccount "usuario/internal/core/services/confirm_account"
	"usuario/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
)

type Handler struct {
	service services.Service[confirmaccount.Input, confirmaccount.Result]
}

func New(service services.Service[confirmaccount.Input, confirmaccount.Result]) *Handler {
	return &Handler{service: service}
}

type Input struct {
	UserID int64  `json:"user_id"`
	Code   string `json:"code"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.UserID, validation.Required, validation.Min(1)),
		validation.Field(&i.Code, validation.Required, validation.Length(0, 512)),
	)
}

type Output struct {
	User         response.User `json:"user"`
	SessionToken string        `json:"session_token"`
}

func (h *Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
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
		confirmaccount.Input{UserID: user.ID(input.UserID), Code: token.Code(input.Code)},
	)
	if errors.Is(err, user.ErrUserDoesNotExist) {
		response.RenderNotFound(rw)
		return
	}
	// One message for every token defect, a probing client learns
	// nothing about which check failed.
	if errors.Is(err, token.ErrTokenInvalid) ||
		errors.Is(err, token.ErrTokenExpired) ||
		errors.Is(err, token.ErrTokenAlreadyConsumed) ||
		errors.Is(err, token.ErrTokenDoesNotExist) {
		response.RenderError(rw, "confirmation link is invalid or expired", http.StatusUnprocessableEntity)
		return
	}
	if err != nil {
		response.RenderInternalError(rw)
		return
	}

	output := Output{SessionToken: string(result.SessionToken)}
	output.User.FromDomainUser(result.User)
	response.Render(rw, output, http.StatusOK)
}
