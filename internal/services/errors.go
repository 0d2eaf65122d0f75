package services

import "errors"

var (
	// ErrInvalidLessonID is returned when a lesson identifier is missing or
	// not a positive integer. Rejected before any store access.
	ErrInvalidLessonID = errors.New("invalid lesson id")
	// ErrInvalidIdentity is returned when an identity key is empty
	ErrInvalidIdentity = errors.New("invalid identity")
)
