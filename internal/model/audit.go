// Package model holds fields shared by the system tables.
package model

import (
	"fmt"
	"time"
)

// Audit is the creator/updater block of sys_role and sys_dept rows.
type Audit struct {
	CreateUser       int64     `json:"createUser,omitempty"`
	CreateUserString string    `json:"createUserString"`
	CreateTime       time.Time `json:"createTime"`
	UpdateUser       int64     `json:"updateUser,omitempty"`
	UpdateUserString string    `json:"updateUserString"`
	UpdateTime       time.Time `json:"updateTime"`
}

// AuditColumns selects the audit block of the table aliased as alias.
// It must be paired with AuditJoins(alias).
func AuditColumns(alias string) string {
	return fmt.Sprintf(
		"COALESCE(%[1]s.create_user, 0), COALESCE(cu.username, ''), %[1]s.create_time, "+
			"COALESCE(%[1]s.update_user, 0), COALESCE(uu.username, ''), %[1]s.update_time",
		alias,
	)
}

func AuditJoins(alias string) string {
	return fmt.Sprintf(
		"LEFT JOIN sys_user cu ON cu.user_id = %[1]s.create_user "+
			"LEFT JOIN sys_user uu ON uu.user_id = %[1]s.update_user",
		alias,
	)
}

// Targets returns scan destinations in AuditColumns order.
func (a *Audit) Targets() []any {
	return []any{
		&a.CreateUser,
		&a.CreateUserString,
		&a.CreateTime,
		&a.UpdateUser,
		&a.UpdateUserString,
		&a.UpdateTime,
	}
}
