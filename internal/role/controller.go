package role

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"cnadmin/internal/response"
	"cnadmin/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type RoleController struct {
	roleService RoleServiceInterface
	sessions    *session.Helper
}

func NewRoleController(roleService RoleServiceInterface, sessions *session.Helper) *RoleController {
	return &RoleController{
		roleService: roleService,
		sessions:    sessions,
	}
}

func (rc *RoleController) List(c *gin.Context) {
	var query ListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return
	}

	roles, err := rc.roleService.List(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get roles"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"list": roles, "total": len(roles)})
}

func (rc *RoleController) Get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID"})
		return
	}

	role, err := rc.roleService.Get(id)
	if err != nil {
		rc.fail(c, err, "Failed to get role")
		return
	}
	c.JSON(http.StatusOK, role)
}

func (rc *RoleController) Create(c *gin.Context) {
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if req.RoleID != 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roleId must be empty when creating"})
		return
	}

	operator, _ := rc.sessions.UserID(c)
	id, err := rc.roleService.Create(c.Request.Context(), req, operator)
	if err != nil {
		rc.fail(c, err, "Failed to create role")
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

func (rc *RoleController) Update(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid role ID"})
		return
	}
	req, ok := bindRequest(c)
	if !ok {
		return
	}
	if req.RoleID != 0 && req.RoleID != id {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roleId does not match the path"})
		return
	}

	operator, _ := rc.sessions.UserID(c)
	if err := rc.roleService.Update(c.Request.Context(), id, req, operator); err != nil {
		rc.fail(c, err, "Failed to update role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role updated successfully"})
}

// Delete accepts one id or a comma separated list
func (rc *RoleController) Delete(c *gin.Context) {
	ids, err := response.ParseIDs(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := rc.roleService.Delete(c.Request.Context(), ids); err != nil {
		rc.fail(c, err, "Failed to delete role")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Role deleted successfully"})
}

func bindRequest(c *gin.Context) (*RoleRequest, bool) {
	var req RoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": response.ValidationMessage(err)})
		return nil, false
	}
	req.RoleName = strings.TrimSpace(req.RoleName)
	if req.RoleName == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "roleName is required"})
		return nil, false
	}
	return &req, true
}

func (rc *RoleController) fail(c *gin.Context, err error, msg string) {
	switch {
	case errors.Is(err, ErrRoleNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Role not found"})
	case errors.Is(err, ErrRoleNameExists):
		c.JSON(http.StatusConflict, gin.H{"error": "Role name already exists"})
	default:
		logrus.WithError(err).Error(msg)
		c.JSON(http.StatusInternalServerError, gin.H{"error": msg})
	}
}
