package model

// Machine-readable error codes returned in the "code" field of error
// responses. Clients key their messaging off these, not off the text.
const (
	ErrUnauthorized           = "UNAUTHORIZED"
	ErrInvalidInput           = "INVALID_INPUT"
	ErrFormIdTaken            = "FORM_ID_TAKEN"
	ErrFormNotFound           = "FORM_NOT_FOUND"
	ErrFormInactive           = "FORM_INACTIVE"
	ErrAlreadyDistributed     = "ALREADY_DISTRIBUTED"
	ErrNotDistributed         = "NOT_DISTRIBUTED"
	ErrCannotClose            = "CANNOT_CLOSE"
	ErrDeadlinePassed         = "DEADLINE_PASSED"
	ErrDeadlineNotReached     = "DEADLINE_NOT_REACHED"
	ErrMaxParticipantsReached = "MAX_PARTICIPANTS_REACHED"
	ErrPrizePoolFilled        = "PRIZE_POOL_FILLED"
	ErrNoParticipants         = "NO_PARTICIPANTS"
	ErrAlreadyClaimed         = "ALREADY_CLAIMED"
	ErrNotAWinner             = "NOT_A_WINNER"
	ErrAlreadySubmitted       = "ALREADY_SUBMITTED"
	ErrNotAParticipant        = "NOT_A_PARTICIPANT"
	ErrInternal               = "INTERNAL_ERROR"
)
