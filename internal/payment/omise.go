package payment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"
)

// OmiseProvider implements Provider on top of the Omise SDK. Authorizations
// are uncaptured charges; escrow is the captured charge balance; transfers go
// to Omise recipients.
type OmiseProvider struct {
	client *omise.Client
}

func NewOmiseProvider(publicKey, secretKey string) (*OmiseProvider, error) {
	client, err := omise.NewClient(publicKey, secretKey)
	if err != nil {
		return nil, fmt.Errorf("create omise client: %w", err)
	}
	client.SetDebug(false)
	return &OmiseProvider{client: client}, nil
}

func (p *OmiseProvider) Authorize(ctx context.Context, req AuthorizeRequest) (string, error) {
	charge := &omise.Charge{}
	err := p.client.Do(charge, &operations.CreateCharge{
		Amount:      req.AmountCents,
		Currency:    req.Currency,
		Card:        req.CardToken,
		DontCapture: true,
		Metadata: map[string]interface{}{
			"booking_id":      req.BookingID,
			"idempotency_key": uuid.NewString(),
		},
	})
	if err != nil {
		return "", mapOmiseError("create charge", err)
	}
	if charge.FailureCode != nil {
		return "", fmt.Errorf("authorize declined (%s): %w", *charge.FailureCode, mapFailureCode(*charge.FailureCode))
	}
	return charge.ID, nil
}

func (p *OmiseProvider) Capture(ctx context.Context, authorizationRef string) (string, error) {
	charge := &omise.Charge{}
	err := p.client.Do(charge, &operations.CaptureCharge{ChargeID: authorizationRef})
	if err != nil {
		return "", mapOmiseError("capture charge", err)
	}
	if !charge.Paid {
		code := "unknown"
		if charge.FailureCode != nil {
			code = *charge.FailureCode
		}
		return "", fmt.Errorf("capture declined (%s): %w", code, mapFailureCode(code))
	}
	return charge.ID, nil
}

func (p *OmiseProvider) Transfer(ctx context.Context, recipientID string, amountCents int64) (string, error) {
	transfer := &omise.Transfer{}
	err := p.client.Do(transfer, &operations.CreateTransfer{
		Amount:    amountCents,
		Recipient: recipientID,
	})
	if err != nil {
		return "", mapOmiseError("create transfer", err)
	}
	return transfer.ID, nil
}

func (p *OmiseProvider) CancelAuthorization(ctx context.Context, authorizationRef string) error {
	charge := &omise.Charge{}
	err := p.client.Do(charge, &operations.ReverseCharge{ChargeID: authorizationRef})
	if err != nil {
		return mapOmiseError("reverse charge", err)
	}
	return nil
}

func (p *OmiseProvider) Refund(ctx context.Context, captureRef string, amountCents int64) (string, error) {
	refund := &omise.Refund{}
	err := p.client.Do(refund, &operations.CreateRefund{
		ChargeID: captureRef,
		Amount:   amountCents,
	})
	if err != nil {
		return "", mapOmiseError("create refund", err)
	}
	return refund.ID, nil
}

// mapOmiseError translates SDK errors into the package's typed errors,
// keeping the original in the chain for logs.
func mapOmiseError(op string, err error) error {
	var omiseErr *omise.Error
	if errors.As(err, &omiseErr) {
		return fmt.Errorf("%s: %s: %w", op, omiseErr.Message, mapFailureCode(omiseErr.Code))
	}
	// Anything that is not a structured provider response is treated as a
	// transport failure and retried on the next run.
	return fmt.Errorf("%s: %v: %w", op, err, ErrProviderUnavailable)
}

func mapFailureCode(code string) error {
	switch code {
	case "insufficient_fund", "insufficient_balance":
		return ErrInsufficientFunds
	case "not_found", "invalid_card", "used_token", "invalid_charge":
		return ErrInvalidAccount
	default:
		return ErrProviderUnavailable
	}
}
