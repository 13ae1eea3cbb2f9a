package resend

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	c "usuario/internal/core/domain/common"
	ratelimiter "usuario/internal/core/domain/rate_limiter"
	"usuario/internal/core/services"
	resendconfirmation "usuario/internal/core/services/resend_confirmation"
	"usuario/internal/http/handlers/response"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
)

type Handler struct {
	service    services.Service[resendconfirmation.Input, resendconfirmation.Result]
	isTestMode bool
}

func New(
	service services.Service[resendconfirmation.Input, resendconfirmation.Result],
	isTestMode bool,
) *Handler {
	return &Handler{service: service, isTestMode: isTestMode}
}

type Input struct {
	Email string `json:"email"`
}

func (i *Input) FromJSON(r io.Reader) error {
	e := json.NewDecoder(r)
	return e.Decode(i)
}

func (i Input) Validate() error {
	return validation.ValidateStruct(&i,
		validation.Field(&i.Email, validation.Required, is.Email, validation.Length(0, 512)),
	)
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

	result, err := h.service.Run(r.Context(), resendconfirmation.Input{Email: c.NewEmail(input.Email)})
	if errors.Is(err, ratelimiter.ErrRateLimitExceeded) {
		response.RenderRateLimitExceeded(rw)
		return
	}
	// Not-resendable renders exactly like success, the response must
	// not disclose whether the email is registered.
	if err != nil && !errors.Is(err, resendconfirmation.ErrNotResendable) {
		response.RenderInternalError(rw)
		return
	}

	if h.isTestMode && err == nil {
		rw.Header().Set("x-test-confirmation-token", string(result.Token.Code))
	}
	response.Render(rw, struct{}{}, http.StatusAccepted)
}
