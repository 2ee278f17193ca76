package session

import "time"

// LoginUser is the identity bound to a login token.
type LoginUser struct {
	UserID    int64     `json:"userId"`
	Username  string    `json:"username"`
	Nickname  string    `json:"nickname"`
	ClientIP  string    `json:"clientIp"`
	Location  string    `json:"location"`
	Browser   string    `json:"browser"`
	LoginTime time.Time `json:"loginTime"`
	Token     string    `json:"token"`
}
