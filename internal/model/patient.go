package model

import (
	"time"
)

// Patient is an identity-linked profile. One patient per external
// identity; removal is an explicit admin action that cascades to the
// patient's appointments but preserves messages and audit history.
type Patient struct {
	Base
	UserID      string     `db:"user_id" json:"user_id"`
	Name        string     `db:"name" json:"name"`
	Email       string     `db:"email" json:"email"`
	Phone       string     `db:"phone" json:"phone,omitempty"`
	DateOfBirth *time.Time `db:"date_of_birth" json:"date_of_birth,omitempty"`
	Gender      string     `db:"gender" json:"gender,omitempty"`
	Address     string     `db:"address" json:"address,omitempty"`
}
