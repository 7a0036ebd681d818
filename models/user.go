package models

import (
	"time"
)

// User represents a registered bettor with a coin balance
type User struct {
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	Balance      int64     `db:"balance"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}
