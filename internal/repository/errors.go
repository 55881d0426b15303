// Package repository holds the storage errors shared by every store implementation.
package repository

import "errors"

var (
	ErrNotFound        = errors.New("record not found")
	ErrDuplicateEmail  = errors.New("email already registered")
	ErrRequestNotFound = errors.New("referenced request does not exist")
	ErrOutOfRange      = errors.New("numeric value out of range")
)
