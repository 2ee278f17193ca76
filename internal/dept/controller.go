package dept

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cnadmin/internal/response"
	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type DeptController struct {
	deptService DeptServiceInterface
	sessions    *session.Helper
}

func NewDeptController(deptService DeptServiceInterface, sessions *session.Helper) *DeptController {
	return &DeptController{
		deptService: deptService,
		sessions:    sessions,
	}
}

func (dc *DeptController) List(c *gin.Context) {
	query, ok := bindQuery(c)
	if !ok {
		return
	}

	depts, err := dc.deptService.List(query)
	if err != nil {
		dc.fail(c, err, "Failed to get depts")
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": depts, "total": len(depts)})
}

func (dc *DeptController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dept ID"})
		return
	}

	dept, err := dc.deptService.Get(id)
	if err != nil {
		dc.fail(c, err, "Failed to get dept")
		return
	}
	c.JSON(http.StatusOK, dept)
}

func (dc *DeptController) Create(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if req.DeptID != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deptId must be empty when creating"})
		return
	}

	operator, _ := dc.sessions.UserID(c)
	id, err := dc.deptService.Create(c.Request.Context(), req, operator)
	if err != nil {
		dc.fail(c, err, "Failed to create dept")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (dc *DeptController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid dept ID"})
		return
	}
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if req.DeptID != 0 && req.DeptID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deptId does not match the path"})
		return
	}

	operator, _ := dc.sessions.UserID(c)
	if err := dc.deptService.Update(c.Request.Context(), id, req, operator); err != nil {
		dc.fail(c, err, "Failed to update dept")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dept updated successfully"})
}

func (dc *DeptController) Delete(c *gin.Context) {
	ids, err := response.ParseIDs(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := dc.deptService.Delete(c.Request.Context(), ids); err != nil {
		dc.fail(c, err, "Failed to delete dept")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Dept deleted successfully"})
}

// Export downloads the filtered dept list as an xlsx workbook
func (dc *DeptController) Export(c *gin.Context) {
	query, ok := bindQuery(c)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := dc.deptService.Export(query, &buf); err != nil {
		dc.fail(c, err, "Failed to export depts")
		return
	}

	filename := fmt.Sprintf("dept_%s.xlsx", time.Now().Format("20060102150405"))
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}

func bindQuery(c *gin.Context) (ListQuery, bool) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return query, false
	}
	return query, true
}

func bindRequest(c *gin.Context) (*DeptRequest, bool) {
	var req DeptRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return nil, false
	}
	req.DeptName = strings.TrimSpace(req.DeptName)
	if req.DeptName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "deptName is required"})
		return nil, false
	}
	return &req, true
}

func (dc *DeptController) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrDeptNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Dept not found"})
	case errors.Is(err, ErrParentNotFound), errors.Is(err, ErrInvalidParent):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, ErrDeptNameExists), errors.Is(err, ErrDeptHasChildren):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logrus.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
