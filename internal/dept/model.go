package dept

import (
	"cnadmin/internal/enums"
	"cnadmin/internal/model"
)

// DeptDetail is a department row with its parent's name resolved.
type DeptDetail struct {
	DeptID      int64                 `json:"deptId"`
	DeptName    string                `json:"deptName"`
	ParentID    int64                 `json:"parentId"`
	Description string                `json:"description"`
	DeptSort    int                   `json:"deptSort"`
	Status      enums.DisEnableStatus `json:"status"`
	ParentName  string                `json:"parentName"`
	model.Audit
}

type DeptRequest struct {
	DeptID      int64                 `json:"deptId"`
	DeptName    string                `json:"deptName" binding:"required,max=64"`
	ParentID    int64                 `json:"parentId" binding:"min=0"`
	Description string                `json:"description" binding:"max=200"`
	DeptSort    *int                  `json:"deptSort" binding:"required"`
	Status      enums.DisEnableStatus `json:"status" binding:"omitempty,oneof=1 2"`
}

type ListQuery struct {
	DeptName string                `form:"deptName"`
	Status   enums.DisEnableStatus `form:"status" binding:"omitempty,oneof=1 2"`
}

func (r *DeptRequest) toDept() *DeptDetail {
	d := &DeptDetail{
		DeptName:    r.DeptName,
		ParentID:    r.ParentID,
		Description: r.Description,
		DeptSort:    *r.DeptSort,
		Status:      r.Status,
	}
	if d.Status == 0 {
		d.Status = enums.StatusEnable
	}
	return d
}
