package apperr

import "errors"

var (
	ErrPageNotFound  = errors.New("page not found")
	ErrBoardNotFound = errors.New("board not found")
	ErrConflict      = errors.New("conflict")
)
