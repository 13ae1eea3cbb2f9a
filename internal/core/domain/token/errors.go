package token

import (
	"errors"
)

var (
	ErrTokenDoesNotExist    = errors.New("token does not exist")
	ErrTokenInvalid         = errors.New("token is invalid")
	ErrTokenExpired         = errors.New("token is expired")
	ErrTokenAlreadyConsumed = errors.New("token is already consumed")
)
