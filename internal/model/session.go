package model

import "time"

// Session binds a client-held token to a user. SessionID is the trust
// anchor; LastActivity is refreshed on every successful validation.
type Session struct {
	ID           int64     `json:"id"`
	SessionID    string    `json:"sessionid"`
	UserID       string    `json:"userid"`
	LastActivity time.Time `json:"lastactivity"`
}
