package domain

import "errors"

var (
	ErrTaskNotFound       = errors.New("task not found")
	ErrInvalidTaskInput   = errors.New("invalid task input")
	ErrStorageUnavailable = errors.New("storage unavailable")
)
