// Package payment defines the port to the external payment provider. The
// settlement engine treats the provider as an opaque capability following the
// authorize, capture, escrow, transfer pattern; provider failures surface as
// the typed errors below so workers can log and retry without inspecting
// SDK-specific error shapes.
package payment

import (
	"context"
	"errors"
)

var (
	ErrInsufficientFunds   = errors.New("payment: insufficient funds")
	ErrInvalidAccount      = errors.New("payment: invalid account")
	ErrProviderUnavailable = errors.New("payment: provider unavailable")
)

// AuthorizeRequest places a hold on the taker's card without moving funds.
type AuthorizeRequest struct {
	BookingID   int64
	AmountCents int64
	Currency    string
	CardToken   string
}

type Provider interface {
	// Authorize places a hold and returns the authorization reference.
	Authorize(ctx context.Context, req AuthorizeRequest) (string, error)
	// Capture pulls the previously authorized funds into escrow and returns
	// the capture reference.
	Capture(ctx context.Context, authorizationRef string) (string, error)
	// Transfer releases escrowed funds to the recipient's receiving account
	// and returns the transfer reference.
	Transfer(ctx context.Context, recipientID string, amountCents int64) (string, error)
	// CancelAuthorization releases a hold that was never captured.
	CancelAuthorization(ctx context.Context, authorizationRef string) error
	// Refund returns captured funds to the taker.
	Refund(ctx context.Context, captureRef string, amountCents int64) (string, error)
}
