package service

import (
	"fmt"

	"github.com/ATenderholt/rainbow-ingest/internal/domain"
)

type MalformedEventError struct {
	reason string
	base   error
}

func (e MalformedEventError) Error() string {
	if e.base == nil {
		return "malformed event batch: " + e.reason
	}

	return fmt.Sprintf("malformed event batch: %s: %v", e.reason, e.base)
}

func (e MalformedEventError) Unwrap() error {
	return e.base
}

type NotFoundError struct {
	bucket string
	key    string
	base   error
}

func (e NotFoundError) Error() string {
	return fmt.Sprintf("object not found: %s/%s", e.bucket, e.key)
}

func (e NotFoundError) Unwrap() error {
	return e.base
}

type TransientStorageError struct {
	bucket string
	key    string
	base   error
}

func (e TransientStorageError) Error() string {
	return fmt.Sprintf("unable to fetch metadata for %s/%s: %v", e.bucket, e.key, e.base)
}

func (e TransientStorageError) Unwrap() error {
	return e.base
}

type ProcessingError struct {
	category domain.Category
	key      string
	base     error
}

func (e ProcessingError) Error() string {
	return fmt.Sprintf("unable to process %s as %s: %v", e.key, e.category, e.base)
}

func (e ProcessingError) Unwrap() error {
	return e.base
}

type LogPersistenceError struct {
	key  string
	base error
}

func (e LogPersistenceError) Error() string {
	return fmt.Sprintf("unable to persist outcome for %s: %v", e.key, e.base)
}

func (e LogPersistenceError) Unwrap() error {
	return e.base
}
