package auth

import "errors"

var (
	ErrInvalidInitData = errors.New("init data verification failed")
	ErrUserNotFound    = errors.New("user not found")
)
