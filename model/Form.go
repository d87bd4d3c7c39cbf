package model

import "time"

type Form struct {
	FormId           string     `json:"form_id"`
	Authority        string     `json:"authority"`
	PrizePool        int64      `json:"prize_pool"`
	CollectedAmount  int64      `json:"collected_amount"`
	Deadline         time.Time  `json:"deadline"`
	MaxParticipants  int        `json:"max_participants"`
	ParticipantCount int        `json:"participant_count"`
	IsActive         bool       `json:"is_active"`
	IsDistributed    bool       `json:"is_distributed"`
	RandomSeed       *uint64    `json:"random_seed,omitempty"`
	DistributedAt    *time.Time `json:"distributed_at,omitempty"`
	ClosedAt         *time.Time `json:"closed_at,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
