package role

import (
	"cnadmin/internal/enums"
	"cnadmin/internal/model"
)

type Role struct {
	RoleID      int64                 `json:"roleId"`
	RoleName    string                `json:"roleName"`
	RoleCode    string                `json:"roleCode"`
	DataScope   enums.DataScope       `json:"dataScope"`
	Description string                `json:"description"`
	RoleSort    int                   `json:"roleSort"`
	Status      enums.DisEnableStatus `json:"status"`
	model.Audit
}

type RoleDetail struct {
	Role
	DataScopeDeptIDs []int64 `json:"dataScopeDeptIds"`
}

// RoleRequest is the body of create and update calls.
// RoleID must be empty on create; on update the path id wins.
type RoleRequest struct {
	RoleID           int64                 `json:"roleId"`
	RoleName         string                `json:"roleName" binding:"required,max=64"`
	RoleCode         string                `json:"roleCode" binding:"max=64"`
	DataScope        enums.DataScope       `json:"dataScope" binding:"omitempty,oneof=1 2 3 4 5"`
	DataScopeDeptIDs []int64               `json:"dataScopeDeptIds"`
	Description      string                `json:"description" binding:"max=200"`
	RoleSort         *int                  `json:"roleSort" binding:"required"`
	Status           enums.DisEnableStatus `json:"status" binding:"omitempty,oneof=1 2"`
}

type ListQuery struct {
	RoleName string                `form:"roleName"`
	Status   enums.DisEnableStatus `form:"status" binding:"omitempty,oneof=1 2"`
}

// toRole applies defaults: data scope "self only" and status enabled.
// Department ids are kept only for the custom data scope.
func (r *RoleRequest) toRole() (*Role, []int64) {
	role := &Role{
		RoleName:    r.RoleName,
		RoleCode:    r.RoleCode,
		DataScope:   r.DataScope,
		Description: r.Description,
		RoleSort:    *r.RoleSort,
		Status:      r.Status,
	}
	if role.DataScope == 0 {
		role.DataScope = enums.DataScopeSelf
	}
	if role.Status == 0 {
		role.Status = enums.StatusEnable
	}

	var deptIDs []int64
	if role.DataScope == enums.DataScopeCustom {
		deptIDs = r.DataScopeDeptIDs
	}
	return role, deptIDs
}
