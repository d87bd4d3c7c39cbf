package model

import "time"

type WalletSession struct {
	Wallet      string    `json:"wallet"`
	ConnectedAt time.Time `json:"connected_at"`
	AccessToken string    `json:"-"`
}
