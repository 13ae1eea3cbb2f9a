package mail

import (
	"context"
	c "usuario/internal/core/domain/common"
	"usuario/internal/core/domain/token"
	"usuario/internal/core/domain/user"
)

// Sender is the mail collaborator. Delivery is a single fallible call;
// retry policy, if any, lives behind this interface.
type Sender interface {
	// SendWelcome greets a newly registered user. The confirmation
	// token is attached when the deployment requires confirmation.
	SendWelcome(ctx context.Context, u user.User, t c.Optional[token.Token]) error
	SendConfirmation(ctx context.Context, u user.User, t token.Token) error
}
