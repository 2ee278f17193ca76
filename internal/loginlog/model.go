package loginlog

import (
	"time"

	"cnadmin/internal/enums"
)

// LoginLog is one login attempt. It is also the queue message body.
type LoginLog struct {
	LogID       int64                      `json:"logId,omitempty"`
	UserID      int64                      `json:"userId,omitempty"`
	Username    string                     `json:"username"`
	ClientIP    string                     `json:"clientIp"`
	Location    string                     `json:"location"`
	Browser     string                     `json:"browser"`
	Status      enums.SuccessFailureStatus `json:"status"`
	Description string                     `json:"description"`
	CreateTime  time.Time                  `json:"createTime"`
}

type PageQuery struct {
	Page     int                        `form:"page" binding:"omitempty,min=1"`
	Size     int                        `form:"size" binding:"omitempty,min=1,max=100"`
	Username string                     `form:"username"`
	Status   enums.SuccessFailureStatus `form:"status" binding:"omitempty,oneof=1 2"`
}

func (q *PageQuery) normalize() {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = 10
	}
}

func (q PageQuery) offset() int {
	return (q.Page - 1) * q.Size
}
