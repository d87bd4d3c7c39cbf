package model

import "time"

type Participant struct {
	FormId           string     `json:"form_id"`
	Wallet           string     `json:"wallet"`
	EmailHash        string     `json:"email_hash"`
	ParticipantIndex int        `json:"participant_index"`
	IsWinner         bool       `json:"is_winner"`
	Claimed          bool       `json:"claimed"`
	ClaimedAt        *time.Time `json:"claimed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
