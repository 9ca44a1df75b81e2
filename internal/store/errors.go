package store

import (
	"errors"
	"fmt"
)

type NotFoundError struct {
	Kind string
	ID   string
}

func (e NotFoundError) Error() string { return fmt.Sprintf("%s not found: %s", e.Kind, e.ID) }

func IsNotFound(err error) bool {
	var nf NotFoundError
	return errors.As(err, &nf)
}

var (
	ErrInvalidID  = errors.New("invalid id")
	ErrEmptyTitle = errors.New("title is required")
	ErrBoardTaken = errors.New("board already exists")

	ErrDoctorIssuesFound = errors.New("doctor found errors")
)
