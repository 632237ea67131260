package services

import (
	"errors"
	"fmt"
)

// Base error conditions, matched with errors.Is at the HTTP boundary and
// translated there into a status code plus a bare message body.
var (
	ErrNotFound     = errors.New("not found")
	ErrBadRequest   = errors.New("bad request")
	ErrUnauthorized = errors.New("user is not authorized")
)

// Entity specific not-found errors, all wrapping ErrNotFound.
var (
	ErrUserNotFound     = fmt.Errorf("user %w", ErrNotFound)
	ErrAuthorNotFound   = fmt.Errorf("author %w", ErrNotFound)
	ErrCategoryNotFound = fmt.Errorf("category %w", ErrNotFound)
	ErrTagNotFound      = fmt.Errorf("tag %w", ErrNotFound)
	ErrPostNotFound     = fmt.Errorf("post %w", ErrNotFound)
	ErrDraftNotFound    = fmt.Errorf("draft %w", ErrNotFound)
	ErrCommentNotFound  = fmt.Errorf("comment %w", ErrNotFound)
	ErrTokenNotFound    = fmt.Errorf("token %w", ErrNotFound)
)

type badRequestError struct{ msg string }

func (e badRequestError) Error() string { return e.msg }

func (e badRequestError) Is(target error) bool { return target == ErrBadRequest }

// BadRequest builds a bad-request error carrying a caller supplied message.
func BadRequest(msg string) error {
	return badRequestError{msg: msg}
}
