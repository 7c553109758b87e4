// Package domain defines the follow-up engine's core types and the
// persistence contracts it depends on.
package domain

import "errors"

var (
	// ErrNotFound indicates the referenced entity does not exist.
	ErrNotFound = errors.New("not found")
	// ErrForbidden indicates the caller is not the resource's owner or recipient.
	ErrForbidden = errors.New("forbidden")
	// ErrInvalidArgument indicates a malformed identifier or filter value.
	ErrInvalidArgument = errors.New("invalid argument")
)
