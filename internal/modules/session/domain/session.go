package domain

import "time"

// SlotKey names the single durable slot holding the session token.
const SlotKey = "access_token"

// Session is present once a login succeeded and until logout or expiry.
// The zero value is the absent session.
type Session struct {
	Token    string    `json:"access_token"`
	Username string    `json:"username,omitempty"`
	IssuedAt time.Time `json:"issued_at"`
}

func (s Session) Present() bool {
	return s.Token != ""
}
