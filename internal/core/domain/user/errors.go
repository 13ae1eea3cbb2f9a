package user

import (
	"errors"
)

var (
	ErrEmailAlreadyExists    = errors.New("email already exists")
	ErrUsernameAlreadyExists = errors.New("username already exists")
	ErrUserDoesNotExist      = errors.New("user does not exist")
	ErrUserAlreadyConfirmed  = errors.New("user is already confirmed")
)
