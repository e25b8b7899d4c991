package domain

import "time"

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
	// ProviderRecipientID is the payment-provider receiving account used for
	// payouts. Empty means the user cannot receive transfers yet; transfers
	// stay pending until the account is funded externally.
	ProviderRecipientID string    `json:"provider_recipient_id,omitempty"`
	CreatedDate         time.Time `json:"created_date"`
}

// HasPayoutAccount reports whether transfers can be sent to this user.
func (u *User) HasPayoutAccount() bool {
	return u.ProviderRecipientID != ""
}
