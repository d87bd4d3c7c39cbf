package utils

import (
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsValidWallet(t *testing.T) {
	tests := []struct {
		description string
		address     string
		expected    bool
	}{
		{"system wallet", "11111111111111111111111111111111", true},
		{"regular wallet", "4Nd1mBQtrMJVYVfKf2PJy9NZUZdTAsp7D4xWLs4gDB4T", true},
		{"token mint style wallet", "So11111111111111111111111111111111111111112", true},
		{"empty", "", false},
		{"too short", "abc", false},
		{"invalid base58 characters", "0OIl0OIl0OIl0OIl0OIl0OIl0OIl0OIl", false},
		{"wrong decoded length", "1111111111111111", false},
	}
	a := assert.New(t)
	for _, test := range tests {
		a.Equal(test.expected, IsValidWallet(test.address), test.description)
	}
}

func TestRandString(t *testing.T) {
	a := assert.New(t)
	a.Len(RandString(12), 12)
	a.Len(RandString(1), 1)
	a.NotEqual(RandString(20), RandString(20))
}

func TestIsErrDuplicate(t *testing.T) {
	a := assert.New(t)
	ok, constraint := IsErrDuplicate(&pgconn.PgError{Code: "23505", ConstraintName: "participant_pkey"})
	a.True(ok)
	a.Equal("participant_pkey", constraint)

	ok, _ = IsErrDuplicate(&pgconn.PgError{Code: "23503"})
	a.False(ok)
	ok, _ = IsErrDuplicate(errors.New("plain error"))
	a.False(ok)
	ok, _ = IsErrDuplicate(nil)
	a.False(ok)
}

func TestIsForeignKeyErr(t *testing.T) {
	a := assert.New(t)
	ok, constraint := IsForeignKeyErr(&pgconn.PgError{Code: "23503", ConstraintName: "participant_form_id_fkey"})
	a.True(ok)
	a.Equal("participant_form_id_fkey", constraint)

	ok, _ = IsForeignKeyErr(&pgconn.PgError{Code: "23505"})
	a.False(ok)
}

func TestLogMessageReturnsTraceId(t *testing.T) {
	a := assert.New(t)
	a.Len(LogMessage(INFO, "test message", "formpool-service"), 12)
	a.Equal("forced-trace", LogMessage(ERROR, "test message", "formpool-service", "forced-trace"))
}
