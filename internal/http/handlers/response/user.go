package response

import (
	"time"
	"usuario/internal/core/domain/user"
)

type User struct {
	ID          int64      `json:"id"`
	Email       string     `json:"email"`
	Username    string     `json:"username"`
	CreatedAt   time.Time  `json:"created_at"`
	ConfirmedAt *time.Time `json:"confirmed_at"`
}

func (u *User) FromDomainUser(du user.User) {
	u.ID = int64(du.ID)
	u.Email = string(du.Email)
	u.Username = string(du.Username)
	u.CreatedAt = du.CreatedAt
	if du.ConfirmedAt.IsPresent {
		u.ConfirmedAt = &du.ConfirmedAt.Value
	}
}
