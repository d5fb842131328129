package errs

import (
	"errors"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrDuplicateKey       = errors.New("already exists")
	ErrOutOfStock         = errors.New("no available copies")
	ErrAlreadyBorrowed    = errors.New("book already borrowed")
	ErrNotBorrowed        = errors.New("book is not borrowed")
	ErrInvalidState       = errors.New("operation violates copy counts")
	ErrInvalidCredentials = errors.New("invalid username or password")
)
