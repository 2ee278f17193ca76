package user

import (
	"time"

	"cnadmin/internal/enums"
)

type User struct {
	UserID     int64                 `json:"userId"`
	Username   string                `json:"username"`
	Nickname   string                `json:"nickname"`
	Password   string                `json:"-"` // Never expose password in JSON
	Status     enums.DisEnableStatus `json:"status"`
	CreateTime time.Time             `json:"createTime"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required,max=64"`
	Password string `json:"password" binding:"required,max=72"`
}
