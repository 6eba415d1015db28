package model

import "time"

// User is an account holder. PassHash never leaves the server: it is
// excluded from JSON and stripped before user records are returned.
type User struct {
	ID          int64     `json:"-"`
	UserID      string    `json:"userid"`
	Username    string    `json:"username"`
	PassHash    string    `json:"-"`
	CreatedDate time.Time `json:"createddate"`
}
