package domain

import "errors"

var (
	ErrNotFound           = errors.New("not found")
	ErrInvalidInterval    = errors.New("invalid booking interval")
	ErrInvalidQuantity    = errors.New("quantity must be at least 1")
	ErrInvalidReasonType  = errors.New("invalid cancellation reason type")
	ErrInvalidTrigger     = errors.New("invalid cancellation trigger")
	ErrListingUnavailable = errors.New("listing has no capacity for the requested period")
	ErrAlreadyCancelled   = errors.New("booking is already cancelled")
)
