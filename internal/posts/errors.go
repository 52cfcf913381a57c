package posts

import "errors"

var (
	ErrNotFound        = errors.New("post not found")
	ErrForbidden       = errors.New("post belongs to another user")
	ErrSlugExists      = errors.New("slug already exists")
	ErrConflict        = errors.New("could not allocate a unique slug")
	ErrUnknownCategory = errors.New("unknown category")
)
