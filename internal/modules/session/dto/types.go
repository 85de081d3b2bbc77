package dto

import "time"

type LoginInput struct {
	Username string
	Password string
}

type SessionOutput struct {
	Present  bool
	Username string
	IssuedAt time.Time
}
