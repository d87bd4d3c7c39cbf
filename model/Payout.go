package model

import "time"

// Payout is one ledger movement in or out of a form's custody.
// Kind is one of deposit, claim or refund.
type Payout struct {
	Id        string    `json:"id"`
	FormId    string    `json:"form_id"`
	Wallet    string    `json:"wallet"`
	Amount    int64     `json:"amount"`
	Kind      string    `json:"kind"`
	CreatedAt time.Time `json:"created_at"`
}
