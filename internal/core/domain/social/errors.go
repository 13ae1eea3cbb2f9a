package social

import (
	"errors"
)

var (
	ErrAccountDoesNotExist     = errors.New("social account does not exist")
	ErrAccountAlreadyExists    = errors.New("social account already exists")
	ErrAccountAlreadyConnected = errors.New("social account is already connected")
)
