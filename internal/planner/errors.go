package planner

import "errors"

// Errors returned by the planner. Store implementations wrap ErrNotFound,
// ErrInvalidArgument, and ErrAlreadySubmitted so callers can match them
// with errors.Is.
var (
	ErrNotFound                 = errors.New("not found")
	ErrInvalidArgument          = errors.New("invalid argument")
	ErrIncompatibleMuscleGroups = errors.New("incompatible muscle groups")
	ErrAlreadySubmitted         = errors.New("recovery assessment already submitted for this date")
)
